package sms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silversky/partnersms-backend/internal/sms"
)

func TestNormalizeE164PassesThrough(t *testing.T) {
	got, err := sms.Normalize("+12025550123", "US")
	require.NoError(t, err)
	assert.Equal(t, "+12025550123", got)
}

func TestNormalizeNationalFormatUsesDefaultRegion(t *testing.T) {
	for _, raw := range []string{"(202) 555-0123", "202-555-0123", "2025550123", " 202 555 0123 "} {
		got, err := sms.Normalize(raw, "US")
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, "+12025550123", got)
	}
}

func TestNormalizeInternationalPrefixIgnoresDefaultRegion(t *testing.T) {
	got, err := sms.Normalize("+442079460123", "US")
	require.NoError(t, err)
	assert.Equal(t, "+442079460123", got)
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-number", "123"} {
		_, err := sms.Normalize(raw, "US")
		assert.Error(t, err, "input %q", raw)
	}
}
