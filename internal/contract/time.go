// Package contract holds the JSON wire shapes shared by the HTTP API and
// the MCP tools, with mappers to and from the app and domain types.
package contract

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseTime accepts RFC 3339 timestamps and bare dates. Bare dates are
// midnight UTC.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
