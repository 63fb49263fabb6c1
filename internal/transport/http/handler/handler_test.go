package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-backend/internal/apperr"
)

func TestParseDate(t *testing.T) {
	d, err := parseDate("date", "2024-06-01")
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	d, err = parseDate("date", "2024-06-01T09:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 7, d.UTC().Hour())

	d, err = parseDate("date", "")
	assert.NoError(t, err)
	assert.Nil(t, d, "missing date is left to the required check")

	_, err = parseDate("date", "01/06/2024")
	assert.Contains(t, apperr.FieldsOf(err), "date")
}

func TestIncomePatchKeepsAbsentDate(t *testing.T) {
	p, err := incomePatchBody{}.patch()
	require.NoError(t, err)
	assert.Nil(t, p.Date)

	bad := "yesterday"
	_, err = incomePatchBody{Date: &bad}.patch()
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
