package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDates(t *testing.T) {
	date, from, to, err := parseDates("2024-01-02", "", "")
	require.NoError(t, err)
	require.NotNil(t, date)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *date)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, from, to, err = parseDates("", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, from)
	require.NotNil(t, to)
	assert.True(t, from.Before(*to))
}

func TestParseDates_Invalid(t *testing.T) {
	_, _, _, err := parseDates("01/02/2024", "", "")
	assert.Error(t, err)

	_, _, _, err = parseDates("", "2024-02-01", "2024-01-01")
	assert.Error(t, err)
}
