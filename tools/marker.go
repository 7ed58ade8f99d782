package tools

import (
	"fmt"
	"regexp"
	"strings"
)

var nothingFoundRegex = regexp.MustCompile(`(?i)^no\b.*\bfound\b`)

// ErrorMarker is the tool result recorded when invoking tool failed
func ErrorMarker(tool string, err error) string {
	return fmt.Sprintf("[Error calling %s]: %v", tool, err)
}

// IsErrorMarker reports whether result was produced by ErrorMarker
func IsErrorMarker(result string) bool {
	return strings.HasPrefix(result, "[Error calling ")
}

// NotFound formats a "nothing found" result
func NotFound(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// IsNothingFound reports whether result states that nothing was found
func IsNothingFound(result string) bool {
	return nothingFoundRegex.MatchString(strings.TrimSpace(result))
}

// NotConfigured is the result of a tool missing required configuration
func NotConfigured(tool string, what string) string {
	return fmt.Sprintf("[%s] %s is not configured.", tool, what)
}

// IsUsable reports whether result carries data worth synthesizing
func IsUsable(result string) bool {
	return strings.TrimSpace(result) != "" && !IsErrorMarker(result) && !IsNothingFound(result)
}
