package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
	"github.com/sqlscout-io/sqlscout-engine/pkg/logging"
	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
)

// BigQueryFactory opens BigQuery gateways from materialized credentials.
type BigQueryFactory struct {
	logger *zap.Logger
}

// NewBigQueryFactory creates a gateway factory.
func NewBigQueryFactory(logger *zap.Logger) *BigQueryFactory {
	return &BigQueryFactory{logger: logger.Named("warehouse")}
}

// Open creates a BigQuery client from the credential's service-account key.
// The caller owns the returned gateway and must Close it after the call it
// was opened for.
func (f *BigQueryFactory) Open(ctx context.Context, cred *models.Credential) (Gateway, error) {
	client, err := bigquery.NewClient(ctx, cred.ProjectID, option.WithCredentialsJSON(cred.KeyJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConnectionFailed, logging.SanitizeError(err))
	}
	return &bigQueryGateway{client: client, logger: f.logger}, nil
}

type bigQueryGateway struct {
	client *bigquery.Client
	logger *zap.Logger
}

// Introspect fetches table metadata and maps its schema to live fields.
// objectName is "dataset.table".
func (g *bigQueryGateway) Introspect(ctx context.Context, objectName string) ([]models.LiveSchemaField, error) {
	datasetID, tableID, err := splitObjectName(objectName)
	if err != nil {
		return nil, err
	}

	md, err := g.client.Dataset(datasetID).Table(tableID).Metadata(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrObjectNotFound, objectName)
		}
		return nil, classifyError(err)
	}

	fields := make([]models.LiveSchemaField, 0, len(md.Schema))
	for _, fs := range md.Schema {
		fields = append(fields, models.LiveSchemaField{
			Name:        fs.Name,
			Type:        string(fs.Type),
			Description: fs.Description,
		})
	}

	g.logger.Debug("Introspected object",
		zap.String("object", objectName),
		zap.Int("fields", len(fields)))

	return fields, nil
}

// DryRun submits the query in dry-run mode, which validates it and reports
// bytes to be processed without executing or billing.
func (g *bigQueryGateway) DryRun(ctx context.Context, sql string) (*models.DryRunResult, error) {
	q := g.client.Query(sql)
	q.DryRun = true
	q.DisableQueryCache = true

	job, err := q.Run(ctx)
	if err != nil {
		// Query errors (bad syntax, unknown table) surface at submit time
		// in dry-run mode and are results, not failures.
		if isInvalidQuery(err) {
			g.logger.Debug("Dry run rejected query", zap.String("sql", logging.SanitizeSQL(sql)), zap.Error(err))
			return &models.DryRunResult{
				Valid:   false,
				Message: fmt.Sprintf("dry run failed: %v", err),
			}, nil
		}
		return nil, classifyError(err)
	}

	status := job.LastStatus()
	var bytes int64
	if status != nil && status.Statistics != nil {
		bytes = status.Statistics.TotalBytesProcessed
	}

	g.logger.Debug("Dry run succeeded",
		zap.String("sql", logging.SanitizeSQL(sql)),
		zap.Int64("bytes_processed", bytes))

	gb := float64(bytes) / (1 << 30)
	return &models.DryRunResult{
		Valid:          true,
		BytesProcessed: &bytes,
		Message:        fmt.Sprintf("Query dry run successful. Estimated data to be processed: %.4f GB.", gb),
	}, nil
}

// HealthCheck lists at most one dataset to prove the credential works.
func (g *bigQueryGateway) HealthCheck(ctx context.Context) error {
	it := g.client.Datasets(ctx)
	it.PageInfo().MaxSize = 1
	if _, err := it.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return classifyError(err)
	}
	return nil
}

// Close releases the BigQuery client.
func (g *bigQueryGateway) Close() error {
	return g.client.Close()
}

// splitObjectName parses "dataset.table" (or "project.dataset.table", where
// the project prefix is ignored in favor of the credential's project).
func splitObjectName(objectName string) (datasetID, tableID string, err error) {
	parts := strings.Split(objectName, ".")
	switch len(parts) {
	case 2:
		return parts[0], parts[1], nil
	case 3:
		return parts[1], parts[2], nil
	default:
		return "", "", fmt.Errorf("%w: object name must be dataset.table, got %q", apperrors.ErrValidation, objectName)
	}
}

// classifyError maps googleapi errors onto the engine taxonomy. Quota and
// billing rejections get their own kind so callers can distinguish them
// from plain connectivity failures.
func classifyError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == 403 {
			for _, item := range gerr.Errors {
				switch item.Reason {
				case "quotaExceeded", "rateLimitExceeded", "billingNotEnabled", "billingTierLimitExceeded":
					return fmt.Errorf("%w: %s", apperrors.ErrQuotaExceeded, gerr.Message)
				}
			}
		}
	}
	return fmt.Errorf("%w: %s", apperrors.ErrConnectionFailed, logging.SanitizeError(err))
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 404
}

// isInvalidQuery reports whether the error is a 400-level rejection of the
// query itself (syntax error, unknown column, missing table in the FROM
// clause) rather than an infrastructure failure.
func isInvalidQuery(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == 400 || gerr.Code == 404
}
