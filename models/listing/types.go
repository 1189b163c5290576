package listing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// DayHours is the opening window for one weekday, as "HH:MM" strings.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// BusinessHours is keyed by lowercase English day name.
type BusinessHours map[string]DayHours

// SocialLinks is keyed by network name (instagram, telegram, ...).
type SocialLinks map[string]string

// StringSlice stores an ordered list as a JSON column.
type StringSlice []string

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported type for JSON column")
	}
}

func (h *BusinessHours) Scan(value interface{}) error {
	*h = nil
	return scanJSON(value, h)
}

func (h BusinessHours) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	b, err := json.Marshal(h)
	return string(b), err
}

func (s *SocialLinks) Scan(value interface{}) error {
	*s = nil
	return scanJSON(value, s)
}

func (s SocialLinks) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	return string(b), err
}

func (ss *StringSlice) Scan(value interface{}) error {
	*ss = nil
	return scanJSON(value, ss)
}

// Value never stores NULL so photos always round-trip as an array.
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return "[]", nil
	}
	b, err := json.Marshal(ss)
	return string(b), err
}
