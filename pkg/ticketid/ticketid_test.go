package ticketid

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 02:30 UTC is still the previous day in São Paulo.
	created := time.Date(2025, 3, 10, 2, 30, 0, 0, time.UTC)
	assert.Equal(t, "20250309007", Format(created, 7, sp))
	assert.Equal(t, "20250310007", Format(created, 7, time.UTC))
	assert.Equal(t, "20250310007", Format(created, 7, nil))

	assert.Equal(t, "202503091234", Format(created, 1234, sp))
}

func TestFormatIgnoresInputZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	instant := time.Date(2025, 1, 1, 8, 0, 0, 0, tokyo) // 2024-12-31 23:00 UTC
	assert.Equal(t, "20241231042", Format(instant, 42, time.UTC))
	assert.Equal(t, Format(instant.UTC(), 42, time.UTC), Format(instant, 42, time.UTC))
}
