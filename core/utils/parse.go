package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Parse errors. Callers prefix them with the field name.
var (
	ErrNotInteger = errors.New("a valid integer is required")
	ErrNotString  = errors.New("not a valid string")
	ErrNotTime    = errors.New("datetime has wrong format, use RFC3339")
	ErrNotList    = errors.New("expected a list of items")
	ErrNotID      = errors.New("a valid positive id is required")
)

// int64er matches json.Number from both encoding/json and goccy/go-json.
type int64er interface {
	Int64() (int64, error)
}

// ParseInt accepts JSON numbers with no fractional part and numeric strings.
func ParseInt(val any) (int64, error) {
	switch v := val.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, ErrNotInteger
		}
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, ErrNotInteger
		}
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, ErrNotInteger
		}
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, ErrNotInteger
		}
		return i, nil
	case int64er:
		i, err := v.Int64()
		if err != nil {
			return 0, ErrNotInteger
		}
		return i, nil
	default:
		return 0, ErrNotInteger
	}
}

// ParseString accepts strings and numbers. Booleans, lists and objects are rejected.
func ParseString(val any) (string, error) {
	switch v := val.(type) {
	case string:
		return v, nil
	case float64, int, int64:
		return ToString(v), nil
	case int64er:
		return ToString(v), nil
	default:
		return "", ErrNotString
	}
}

// ParseTime accepts RFC3339 strings, with or without fractional seconds.
func ParseTime(val any) (time.Time, error) {
	s, ok := val.(string)
	if !ok {
		return time.Time{}, ErrNotTime
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrNotTime
	}
	return t.UTC(), nil
}

// ParseStringList accepts a JSON list of strings or a comma-separated string.
// Blank entries are dropped.
func ParseStringList(val any) ([]string, error) {
	out := []string{}
	switch v := val.(type) {
	case nil:
		return out, nil
	case string:
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	case []string:
		for _, p := range v {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	case []any:
		for _, item := range v {
			s, err := ParseString(item)
			if err != nil {
				return nil, ErrNotList
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, ErrNotList
	}
}

// ParseOptionalUint parses a nullable positive id. nil and "" yield nil.
func ParseOptionalUint(val any) (*uint, error) {
	if val == nil {
		return nil, nil
	}
	if s, ok := val.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	i, err := ParseInt(val)
	if err != nil || i <= 0 {
		return nil, ErrNotID
	}
	id := uint(i)
	return &id, nil
}
