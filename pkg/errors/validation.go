package errors

import (
	"net/url"
	"slices"
	"strings"
	"unicode"
)

const (
	maxNodeIDLength = 512
	maxPathLength   = 4096
)

// checkText rejects empty, overlong and control-character strings with code.
func checkText(code Code, what, s string, maxLen int) error {
	switch {
	case s == "":
		return New(code, "%s cannot be empty", what)
	case len(s) > maxLen:
		return New(code, "%s too long (max %d characters)", what, maxLen)
	case strings.IndexFunc(s, unicode.IsControl) >= 0:
		return New(code, "%s contains control characters", what)
	}
	return nil
}

// ValidateNodeID checks an author id arriving from a payload or an HTTP
// event. Ids are free text (author names), so only emptiness, length and
// control characters are rejected.
func ValidateNodeID(id string) error {
	return checkText(ErrCodeInvalidInput, "node id", id, maxNodeIDLength)
}

// ValidatePath checks a local source or output path.
func ValidatePath(path string) error {
	return checkText(ErrCodeInvalidPath, "path", path, maxPathLength)
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL has no host")
	}
	return nil
}

// ValidateFormat checks that format is one of allowed.
func ValidateFormat(format string, allowed []string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "invalid format %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
