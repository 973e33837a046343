package app

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawRow is one loosely typed spreadsheet or JSON row keyed by column header.
type RawRow map[string]any

// LooseBool coerces a spreadsheet flag. Truth table:
//
//	bool true            -> true
//	string "true"        -> true
//	anything else        -> false ("TRUE", "1", 1, false, nil, "")
func LooseBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}

// LooseString renders a cell as text. nil becomes "".
func LooseString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// LooseInt parses an integer cell. present is false for nil and blank strings.
func LooseInt(v any) (n int, present bool, err error) {
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case int:
		return t, true, nil
	case int32:
		return int(t), true, nil
	case int64:
		return int(t), true, nil
	case float64:
		return floatToInt(t)
	case json.Number:
		return LooseInt(t.String())
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false, nil
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i, true, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, true, fmt.Errorf("%q is not a number", t)
		}
		return floatToInt(f)
	}
	return 0, true, fmt.Errorf("unsupported value %v", v)
}

func floatToInt(f float64) (int, bool, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, true, fmt.Errorf("%v is not a whole number", f)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no int64 can hold
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, true, fmt.Errorf("%v is out of range", f)
	}
	return int(f), true, nil
}
