package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 42, ToInt(42))
	assert.Equal(t, 42, ToInt(int64(42)))
	assert.Equal(t, 42, ToInt(42.9))
	assert.Equal(t, 42, ToInt(" 42 "))
	assert.Equal(t, 42, ToInt([]byte("42")))
	assert.Equal(t, 0, ToInt("abc"))
	assert.Equal(t, 0, ToInt(nil))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "12", ToString(12.0))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "true", ToString(true))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(1))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool("yes"))
	assert.True(t, ToBool([]byte("1")))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool(2))
	assert.False(t, ToBool(nil))
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"float", float64(12), 12, false},
		{"fraction", 1.5, 0, true},
		{"too large", 1e20, 0, true},
		{"two to the 63", float64(1 << 63), 0, true},
		{"too small", -1e19, 0, true},
		{"min int64", float64(-1 << 63), -1 << 63, false},
		{"string", "7", 7, false},
		{"bad string", "seven", 0, true},
		{"json number", json.Number("99"), 99, false},
		{"bool", true, 0, true},
		{"nil", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInt(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotInteger)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseString(t *testing.T) {
	s, err := ParseString("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s, err = ParseString(float64(3))
	require.NoError(t, err)
	assert.Equal(t, "3", s)

	_, err = ParseString(true)
	assert.ErrorIs(t, err, ErrNotString)
	_, err = ParseString([]any{"a"})
	assert.ErrorIs(t, err, ErrNotString)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-03-01T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("2024-03-01T10:00:00.250Z")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, time.Duration(got.Nanosecond()))

	_, err = ParseTime("01/03/2024")
	assert.ErrorIs(t, err, ErrNotTime)
	_, err = ParseTime(12)
	assert.ErrorIs(t, err, ErrNotTime)
}

func TestParseStringList(t *testing.T) {
	got, err := ParseStringList([]any{"go", " fiber ", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "fiber"}, got)

	got, err = ParseStringList("a, b,,c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got, err = ParseStringList(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ParseStringList([]any{map[string]any{}})
	assert.ErrorIs(t, err, ErrNotList)
	_, err = ParseStringList(5)
	assert.ErrorIs(t, err, ErrNotList)
}

func TestParseOptionalUint(t *testing.T) {
	got, err := ParseOptionalUint(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalUint("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalUint(float64(3))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(3), *got)

	_, err = ParseOptionalUint(0)
	assert.ErrorIs(t, err, ErrNotID)
	_, err = ParseOptionalUint("x")
	assert.ErrorIs(t, err, ErrNotID)
}
