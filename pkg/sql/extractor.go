// Package sql extracts, normalizes and screens SQL statements produced by
// the generation service.
package sql

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoStatement indicates the text contains nothing resembling a SQL
// statement.
var ErrNoStatement = errors.New("no SQL statement found")

// leadingClauses are the keywords a statement may open with. Extraction
// treats the first line starting with one of these as the statement start.
var leadingClauses = []string{"SELECT", "WITH", "INSERT", "UPDATE", "DELETE", "MERGE", "CREATE"}

// fencedBlockPattern matches a markdown code fence, optionally language
// tagged, capturing its body.
var fencedBlockPattern = regexp.MustCompile("(?s)```(?:sql|SQL|googlesql)?\\s*\\n?(.*?)```")

// ExtractStatement pulls exactly one SQL statement out of a potentially
// verbose generation response: code fences are unwrapped, surrounding prose
// is stripped, and anything after the statement's terminating semicolon is
// discarded. Returns ErrNoStatement when no recognizable leading clause
// keyword is present.
func ExtractStatement(response string) (string, error) {
	text := strings.TrimSpace(response)
	if text == "" {
		return "", ErrNoStatement
	}

	// Prefer the first fenced block if one exists; models often wrap SQL in
	// ```sql fences despite instructions not to.
	if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	} else {
		// Unterminated or stray fences: drop the fence markers themselves.
		text = strings.TrimSpace(strings.ReplaceAll(text, "```", "\n"))
	}

	start := statementStart(text)
	if start < 0 {
		return "", ErrNoStatement
	}
	text = text[start:]

	// Keep only the first statement: cut at the first semicolon outside
	// string literals, dropping any trailing commentary.
	if end := semicolonIndex(text); end >= 0 {
		text = text[:end]
	}

	result := ValidateAndNormalize(text)
	if result.Error != nil {
		return "", result.Error
	}
	if result.NormalizedSQL == "" {
		return "", ErrNoStatement
	}
	return result.NormalizedSQL, nil
}

// statementStart returns the byte offset of the first line that begins with
// a recognized leading clause keyword, or -1.
func statementStart(text string) int {
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		first, _, _ := strings.Cut(trimmed, " ")
		first = strings.ToUpper(strings.TrimRight(first, "\r\n"))
		for _, kw := range leadingClauses {
			if first == kw {
				return offset + strings.Index(line, trimmed)
			}
		}
		offset += len(line)
	}
	return -1
}
