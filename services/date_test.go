package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-06-01")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("01/06/2025")
	assert.Error(t, err)
}

func TestParseOptionalDate(t *testing.T) {
	parsed := ParseOptionalDate(" 2025-06-01 ")
	assert.NotNil(t, parsed)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), *parsed)

	assert.Nil(t, ParseOptionalDate(""))
	assert.Nil(t, ParseOptionalDate("   "))
	assert.Nil(t, ParseOptionalDate("not a date"))
	assert.Nil(t, ParseOptionalDate("2025-13-40"))
}
