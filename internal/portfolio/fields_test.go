package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTechnologies(t *testing.T) {
	assert.Equal(t, []string{"Go", "React Native", "SQL"}, ParseTechnologies(" Go, React Native ,,SQL, "))
	assert.Equal(t, []string{}, ParseTechnologies(""))
	assert.Equal(t, []string{"Go", "Go"}, ParseTechnologies("Go,Go"))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2023-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseDate("2023-09")
	require.NoError(t, err)
	assert.Equal(t, time.September, got.Month())

	got, err = ParseDate("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDate("01/09/2023")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseDateRange(t *testing.T) {
	_, _, err := ParseDateRange("2024-01-01", "2023-01-01")
	assert.ErrorIs(t, err, ErrDateOrder)

	s, e, err := ParseDateRange("2023-01-01", "")
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.Nil(t, e)
}
