package sql

import (
	"errors"
	"strings"
)

// ErrMultipleStatements indicates the text contains more than one SQL
// statement; only single statements are permitted.
var ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

// ValidationResult carries the normalized SQL or a validation error.
type ValidationResult struct {
	NormalizedSQL string
	Error         error
}

// ValidateAndNormalize strips the trailing semicolon and rejects input that
// still contains a semicolon outside string literals, i.e. a second
// statement.
func ValidateAndNormalize(sqlText string) ValidationResult {
	sqlText = strings.TrimSpace(sqlText)
	if sqlText == "" {
		return ValidationResult{NormalizedSQL: sqlText}
	}

	normalized := strings.TrimSpace(strings.TrimSuffix(sqlText, ";"))

	if semicolonIndex(normalized) >= 0 {
		return ValidationResult{Error: ErrMultipleStatements}
	}

	return ValidationResult{NormalizedSQL: normalized}
}

// semicolonIndex returns the byte index of the first semicolon outside
// single- or double-quoted literals, or -1. Doubled quotes inside a literal
// ('' or "") are treated as escapes.
func semicolonIndex(sqlText string) int {
	const (
		stateNormal = iota
		stateSingle
		stateDouble
	)

	state := stateNormal
	runes := []rune(sqlText)
	byteIdx := 0

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch state {
		case stateNormal:
			switch ch {
			case ';':
				return byteIdx
			case '\'':
				state = stateSingle
			case '"':
				state = stateDouble
			}
		case stateSingle:
			if ch == '\'' {
				if i+1 < len(runes) && runes[i+1] == '\'' {
					byteIdx += len(string(ch))
					i++ // escaped quote, stay in string
				} else {
					state = stateNormal
				}
			}
		case stateDouble:
			if ch == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					byteIdx += len(string(ch))
					i++
				} else {
					state = stateNormal
				}
			}
		}
		byteIdx += len(string(ch))
	}
	return -1
}
