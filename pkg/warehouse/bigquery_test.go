package warehouse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/sqlscout-io/sqlscout-engine/pkg/apperrors"
)

func TestSplitObjectName(t *testing.T) {
	tests := []struct {
		input       string
		wantDataset string
		wantTable   string
		wantErr     bool
	}{
		{"sales.orders", "sales", "orders", false},
		{"my-project.sales.orders", "sales", "orders", false},
		{"orders", "", "", true},
		{"a.b.c.d", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ds, tbl, err := splitObjectName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDataset, ds)
			assert.Equal(t, tt.wantTable, tbl)
		})
	}
}

func TestClassifyError(t *testing.T) {
	t.Run("quota exceeded", func(t *testing.T) {
		err := &googleapi.Error{
			Code:    403,
			Message: "Quota exceeded",
			Errors:  []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
		}
		assert.ErrorIs(t, classifyError(err), apperrors.ErrQuotaExceeded)
	})

	t.Run("billing not enabled", func(t *testing.T) {
		err := &googleapi.Error{
			Code:    403,
			Message: "Billing has not been enabled",
			Errors:  []googleapi.ErrorItem{{Reason: "billingNotEnabled"}},
		}
		assert.ErrorIs(t, classifyError(err), apperrors.ErrQuotaExceeded)
	})

	t.Run("permission denied is a connection error", func(t *testing.T) {
		err := &googleapi.Error{
			Code:    403,
			Message: "Access Denied",
			Errors:  []googleapi.ErrorItem{{Reason: "accessDenied"}},
		}
		assert.ErrorIs(t, classifyError(err), apperrors.ErrConnectionFailed)
	})

	t.Run("transport failure", func(t *testing.T) {
		assert.ErrorIs(t, classifyError(errors.New("dial tcp: i/o timeout")), apperrors.ErrConnectionFailed)
	})

	t.Run("wrapped googleapi error", func(t *testing.T) {
		inner := &googleapi.Error{Code: 403, Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}}
		err := fmt.Errorf("query: %w", inner)
		assert.ErrorIs(t, classifyError(err), apperrors.ErrQuotaExceeded)
	})
}

func TestIsInvalidQuery(t *testing.T) {
	assert.True(t, isInvalidQuery(&googleapi.Error{Code: 400, Message: "Syntax error"}))
	assert.True(t, isInvalidQuery(&googleapi.Error{Code: 404, Message: "Not found: Table"}))
	assert.False(t, isInvalidQuery(&googleapi.Error{Code: 403}))
	assert.False(t, isInvalidQuery(errors.New("dial tcp: refused")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&googleapi.Error{Code: 404}))
	assert.False(t, isNotFound(&googleapi.Error{Code: 500}))
	assert.False(t, isNotFound(errors.New("nope")))
}
