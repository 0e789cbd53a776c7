package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalPgNumericRoundTrip(t *testing.T) {
	for _, raw := range []string{"100", "80.50", "0.01", "123456.78"} {
		d := decimal.RequireFromString(raw)

		num, err := decimalToPgNumeric(d)
		require.NoError(t, err)
		assert.True(t, num.Valid)

		assert.True(t, d.Equal(pgNumericToDecimal(num)), "round trip of %s", raw)
	}
}

func TestPgNumericToDecimal_Invalid(t *testing.T) {
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{}).IsZero())
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{Valid: true}).IsZero())
}

func TestDateToPgDate_KeepsCalendarDay(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	// 00:30 on the 15th in Bangkok is still the 14th in UTC
	local := time.Date(2025, time.March, 15, 0, 30, 0, 0, bangkok)

	d := dateToPgDate(local)
	require.True(t, d.Valid)
	assert.Equal(t, 15, d.Time.Day())
	assert.Equal(t, time.March, d.Time.Month())

	back := pgDateToTime(d)
	assert.Equal(t, 15, back.Day())
	assert.Equal(t, 0, back.Hour())
}

func TestDateToPgDate_Zero(t *testing.T) {
	assert.False(t, dateToPgDate(time.Time{}).Valid)
	assert.True(t, pgDateToTime(pgtype.Date{}).IsZero())
}
