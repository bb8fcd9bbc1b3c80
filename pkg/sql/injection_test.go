package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDescription_CleanValues(t *testing.T) {
	clean := []string{
		"",
		"order total in USD",
		"Customer's preferred shipping region",
		"Timestamp of the last login, UTC",
	}
	for _, value := range clean {
		assert.Nil(t, CheckDescription("amount", value), "value %q should be clean", value)
	}
}

func TestCheckDescription_InjectionDetected(t *testing.T) {
	finding := CheckDescription("search", "'; DROP TABLE users--")
	require.NotNil(t, finding)
	assert.True(t, finding.IsSQLi)
	assert.Equal(t, "search", finding.Field)
	assert.NotEmpty(t, finding.Fingerprint)
}

func TestCheckDescriptions(t *testing.T) {
	findings := CheckDescriptions("orders placed by customers", map[string]string{
		"amount":  "order total in USD",
		"comment": "' OR 1=1--",
	})
	require.Len(t, findings, 1)
	assert.Equal(t, "comment", findings[0].Field)
}

func TestCheckDescriptions_AllClean(t *testing.T) {
	findings := CheckDescriptions("", map[string]string{"amount": "order total"})
	assert.Empty(t, findings)
}
