package domain

import (
	"database/sql/driver" // Valuer interface
	"fmt"                 // Error formatting
	"strings"             // Input trimming
	"time"                // Underlying time value
)

// DateLayout is the wire and form format for calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date stored in a DATE column; the zero value is NULL
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC date
func Today() Date { return NewDate(time.Now().UTC()) }

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil // Empty means unset
	}
	// Plain calendar date first
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	// Fall back to a full timestamp, keeping only its day
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return NewDate(t), nil
}

// String formats the date as YYYY-MM-DD, or "" when unset
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON writes null for an unset date
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON reads null, "" or a date string
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`) // Strip JSON quotes
	if s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Scan implements sql.Scanner for the drivers in use
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = Date{} // NULL column
	case time.Time:
		*d = NewDate(v) // PostgreSQL, and MySQL with parseTime
	case string:
		return d.scanString(v) // SQLite text storage
	case []byte:
		return d.scanString(string(v)) // MySQL without parseTime
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	// SQLite may append a time part to the stored date
	if len(s) >= len(DateLayout) {
		if t, err := time.Parse(DateLayout, s[:len(DateLayout)]); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType maps Date to a DATE column
func (Date) GormDataType() string { return "date" }
