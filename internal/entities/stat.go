package entities

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawStat is a numeric field exactly as the user typed it. Values restored
// from storage may have been written as JSON numbers or strings; both decode.
type RawStat string

// StatOf formats a number as a RawStat
func StatOf(v float64) RawStat {
	return RawStat(strconv.FormatFloat(v, 'f', -1, 64))
}

// Value parses the stat. ok is false for blank, non-numeric and non-finite
// input.
func (s RawStat) Value() (v float64, ok bool) {
	trimmed := strings.TrimSpace(string(s))
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Float returns the parsed value, or 0 when the stat is not a finite number
func (s RawStat) Float() float64 {
	v, _ := s.Value()
	return v
}

// UnmarshalJSON accepts a string, a number or null
func (s *RawStat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = RawStat(str)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = RawStat(n.String())
		return nil
	}
}
