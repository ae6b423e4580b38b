// Package redact scrubs secrets from text before it is persisted.
// Captured command output (last.log) and audit events routinely contain
// tokens pasted into error messages; they must never land on disk.
package redact

import "regexp"

var sensitivePatterns = []*regexp.Regexp{
	// AWS
	regexp.MustCompile(`(?i)(aws_access_key_id|aws_secret_access_key|aws_session_token)\s*[=:]\s*['"]?[A-Za-z0-9/+=]{20,}['"]?`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),

	// GitHub
	regexp.MustCompile(`(?i)(github_token|gh_token|github_pat)\s*[=:]\s*['"]?[A-Za-z0-9_-]{30,}['"]?`),
	regexp.MustCompile(`gh[opurs]_[A-Za-z0-9]{36}`),

	// Generic API keys
	regexp.MustCompile(`(?i)(api_key|apikey|api-key|secret_key|secretkey|secret-key|access_token|auth_token)\s*[=:]\s*['"]?[A-Za-z0-9_-]{16,}['"]?`),

	// Private keys
	regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_-]{20,}`),

	// Basic auth in URLs
	regexp.MustCompile(`https?://[^:]+:[^@]+@`),

	// Slack tokens
	regexp.MustCompile(`xox[baprs]-[0-9]{10,13}-[0-9]{10,13}[a-zA-Z0-9-]*`),

	// Stripe
	regexp.MustCompile(`sk_live_[0-9a-zA-Z]{24}`),
	regexp.MustCompile(`rk_live_[0-9a-zA-Z]{24}`),

	// Password-looking assignments
	regexp.MustCompile(`(?i)(password|passwd|pwd|secret)\s*[=:]\s*['"]?[^\s'"]{8,}['"]?`),
}

const redactedPlaceholder = "[REDACTED]"

// Redact replaces anything secret-shaped with a placeholder.
func Redact(input string) string {
	result := input
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, redactedPlaceholder)
	}
	return result
}
