package warehouse

import (
	"context"

	"github.com/sqlscout-io/sqlscout-engine/pkg/models"
)

// MockGateway is a configurable mock for testing warehouse interactions.
type MockGateway struct {
	IntrospectFunc  func(ctx context.Context, objectName string) ([]models.LiveSchemaField, error)
	DryRunFunc      func(ctx context.Context, sql string) (*models.DryRunResult, error)
	HealthCheckFunc func(ctx context.Context) error

	// Call tracking for verification.
	IntrospectCalls  int
	DryRunCalls      int
	HealthCheckCalls int
	CloseCalls       int
	LastSQL          string
}

// Introspect implements Gateway.
func (m *MockGateway) Introspect(ctx context.Context, objectName string) ([]models.LiveSchemaField, error) {
	m.IntrospectCalls++
	if m.IntrospectFunc != nil {
		return m.IntrospectFunc(ctx, objectName)
	}
	return nil, nil
}

// DryRun implements Gateway.
func (m *MockGateway) DryRun(ctx context.Context, sql string) (*models.DryRunResult, error) {
	m.DryRunCalls++
	m.LastSQL = sql
	if m.DryRunFunc != nil {
		return m.DryRunFunc(ctx, sql)
	}
	return &models.DryRunResult{Valid: true, Message: "ok"}, nil
}

// HealthCheck implements Gateway.
func (m *MockGateway) HealthCheck(ctx context.Context) error {
	m.HealthCheckCalls++
	if m.HealthCheckFunc != nil {
		return m.HealthCheckFunc(ctx)
	}
	return nil
}

// Close implements Gateway.
func (m *MockGateway) Close() error {
	m.CloseCalls++
	return nil
}

// MockFactory hands out a fixed gateway (or an error) and records the
// credentials it was opened with.
type MockFactory struct {
	Gateway *MockGateway
	OpenErr error

	OpenCalls      int
	LastCredential *models.Credential
}

// Open implements Factory.
func (f *MockFactory) Open(ctx context.Context, cred *models.Credential) (Gateway, error) {
	f.OpenCalls++
	f.LastCredential = cred
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	if f.Gateway == nil {
		f.Gateway = &MockGateway{}
	}
	return f.Gateway, nil
}

// Compile-time interface checks.
var (
	_ Gateway = (*MockGateway)(nil)
	_ Factory = (*MockFactory)(nil)
	_ Gateway = (*bigQueryGateway)(nil)
	_ Factory = (*BigQueryFactory)(nil)
)
