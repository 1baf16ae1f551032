package util

import (
	"regexp"
	"strings"
)

const maxDeviceIdentifierLen = 128

var serviceCodeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// IsValidDeviceIdentifier accepts the user-supplied lookup subject
// (IMEI, serial, or similar). Providers disagree on formats, so only
// basic shape is enforced.
func IsValidDeviceIdentifier(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || len(trimmed) > maxDeviceIdentifierLen {
		return false
	}
	return !strings.ContainsAny(trimmed, " \t\r\n")
}

func IsValidServiceCode(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	return serviceCodeRegex.MatchString(s)
}
