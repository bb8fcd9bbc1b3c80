package logging

import "regexp"

const (
	// MaxSQLLogLength is the maximum length of a SQL statement to log.
	MaxSQLLogLength = 200
	// RedactedText replaces sensitive data in log output.
	RedactedText = "[REDACTED]"
)

var (
	// password=xxx, pwd=xxx, pass=xxx up to the next delimiter
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Bearer JWTs (three base64url segments separated by dots)
	jwtPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]*`)

	// api_key=... style values
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// user:pass@host in connection URLs
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)

	// "private_key": "..." inside service-account key JSON. Credential blobs
	// must never be logged at all; this is the backstop for error messages
	// that quote fragments of one.
	privateKeyPattern = regexp.MustCompile(`"private_key"\s*:\s*"(?:[^"\\]|\\.)*"`)
)

// SanitizeError strips credential material from an error message before it
// is logged. Covers passwords, bearer tokens, API keys, connection URLs and
// service-account private keys.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return sanitize(err.Error())
}

// SanitizeValue strips credential material from an arbitrary string value.
func SanitizeValue(s string) string {
	return sanitize(s)
}

// SanitizeSQL truncates and sanitizes a SQL statement for logging.
func SanitizeSQL(sql string) string {
	if sql == "" {
		return ""
	}
	if len(sql) > MaxSQLLogLength {
		sql = sql[:MaxSQLLogLength] + "..."
	}
	return sanitize(sql)
}

func sanitize(s string) string {
	s = passwordPattern.ReplaceAllString(s, "${1}="+RedactedText)
	s = jwtPattern.ReplaceAllString(s, "Bearer "+RedactedText)
	s = apiKeyPattern.ReplaceAllString(s, "${1}="+RedactedText)
	s = connStringPattern.ReplaceAllString(s, "://"+RedactedText+"@"+RedactedText)
	s = privateKeyPattern.ReplaceAllString(s, `"private_key":"`+RedactedText+`"`)
	return s
}
