package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlexibleDate is a custom time type that can unmarshal RFC3339 timestamps as
// well as the date-only formats that show up in exposure extracts.
type FlexibleDate struct {
	time.Time
}

// dateLayouts are tried in order when parsing date-only values. Day-first
// layouts come last so ISO dates never get misread.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// ParseDate parses a date string in any of the supported date-only layouts,
// falling back to RFC3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexibleDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexibleDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Time)
}
