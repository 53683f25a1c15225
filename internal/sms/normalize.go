// internal/sms/normalize.go
package sms

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Normalize parses an operator-entered phone number into E.164.
// Numbers without a leading + are parsed against defaultRegion.
func Normalize(num, defaultRegion string) (string, error) {
	num = strings.TrimSpace(num)
	if num == "" {
		return "", fmt.Errorf("missing number")
	}

	region := ""
	if num[0] != '+' {
		region = defaultRegion
	}

	parsed, err := phonenumbers.Parse(num, region)
	if err != nil {
		return "", fmt.Errorf("invalid phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number")
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
