// Package warehouse adapts the external BigQuery API behind a narrow
// gateway interface: live schema introspection, cost-estimating dry run and
// a connectivity check. All calls are single-shot; the warehouse's own
// quota/billing semantics pass through as classified errors, never local
// retries.
package warehouse

import (
	"context"

	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
)

// Gateway is one warehouse session bound to one materialized credential.
// Instances are short-lived: opened for a call, closed right after. They
// must not be cached or shared across requests.
type Gateway interface {
	// Introspect returns the live column list for a named object
	// ("dataset.table"). Fails with apperrors.ErrObjectNotFound when the
	// warehouse reports no such table or view.
	Introspect(ctx context.Context, objectName string) ([]models.LiveSchemaField, error)

	// DryRun validates sql and estimates its cost without executing it.
	// An invalid query is a result (Valid=false), not an error; the error
	// return covers infrastructure failures only.
	DryRun(ctx context.Context, sql string) (*models.DryRunResult, error)

	// HealthCheck verifies the credential can reach the warehouse.
	HealthCheck(ctx context.Context) error

	// Close releases the underlying client.
	Close() error
}

// Factory opens a Gateway for one materialized credential.
type Factory interface {
	Open(ctx context.Context, cred *models.Credential) (Gateway, error)
}
