package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionFinding reports a SQL injection pattern detected in a curated
// description value.
type InjectionFinding struct {
	IsSQLi      bool   // true if an injection pattern was detected
	Fingerprint string // libinjection fingerprint of the pattern
	Field       string // which description field failed the check
	Value       string // the offending value
}

// CheckDescription screens one free-text description for SQL injection
// patterns. Curated descriptions are interpolated verbatim into generation
// prompts, so hostile values are rejected at save time rather than handed
// to the model.
//
// Returns nil when the value is clean.
func CheckDescription(field, value string) *InjectionFinding {
	if value == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionFinding{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		Field:       field,
		Value:       value,
	}
}

// CheckDescriptions screens an object description and its field
// descriptions, returning a finding per offending value. An empty slice
// means all values are clean.
func CheckDescriptions(objectDescription string, fields map[string]string) []InjectionFinding {
	findings := []InjectionFinding{}

	if f := CheckDescription("object_description", objectDescription); f != nil {
		findings = append(findings, *f)
	}
	for name, desc := range fields {
		if f := CheckDescription(name, desc); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}
