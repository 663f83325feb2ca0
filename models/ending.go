// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Ending is a poll's closing time on the wire: [year, month, day, hour, minute]
// wall clock in the server's reference zone. It also decodes ISO-8601 strings,
// which is what the edit page sends.
type Ending struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int

	// instant is set when decoded from a string carrying a UTC offset.
	instant time.Time
}

var endingLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// EndingFrom expresses t as wall clock in loc.
func EndingFrom(t time.Time, loc *time.Location) Ending {
	t = t.In(loc)
	return Ending{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

func (e Ending) IsZero() bool {
	return e.Year == 0 && e.instant.IsZero()
}

// In resolves the ending to an absolute instant, interpreting wall clock
// values in loc. Seconds are dropped.
func (e Ending) In(loc *time.Location) time.Time {
	if !e.instant.IsZero() {
		return e.instant.In(loc).Truncate(time.Minute)
	}
	return time.Date(e.Year, time.Month(e.Month), e.Day, e.Hour, e.Minute, 0, 0, loc)
}

func (e Ending) MarshalJSON() ([]byte, error) {
	return json.Marshal([]int{e.Year, e.Month, e.Day, e.Hour, e.Minute})
}

func (e *Ending) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*e = Ending{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return e.parseString(s)
	}

	var parts []int
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("ending must be [year, month, day, hour, minute] or an ISO-8601 string: %w", err)
	}
	// LocalDateTime style arrays may carry seconds and nanos; they are ignored.
	if len(parts) < 5 || len(parts) > 7 {
		return errors.New("ending must have 5 elements: [year, month, day, hour, minute]")
	}
	parsed := Ending{Year: parts[0], Month: parts[1], Day: parts[2], Hour: parts[3], Minute: parts[4]}
	if err := parsed.check(); err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e *Ending) parseString(s string) error {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*e = Ending{
			Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Hour: t.Hour(), Minute: t.Minute(),
			instant: t,
		}
		return nil
	}
	for _, layout := range endingLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*e = Ending{Year: t.Year(), Month: int(t.Month()), Day: t.Day(), Hour: t.Hour(), Minute: t.Minute()}
			return nil
		}
	}
	return fmt.Errorf("ending %q is not a recognised timestamp", s)
}

func (e Ending) check() error {
	switch {
	case e.Month < 1 || e.Month > 12:
		return fmt.Errorf("ending month %d out of range", e.Month)
	case e.Day < 1 || e.Day > 31:
		return fmt.Errorf("ending day %d out of range", e.Day)
	case e.Hour < 0 || e.Hour > 23:
		return fmt.Errorf("ending hour %d out of range", e.Hour)
	case e.Minute < 0 || e.Minute > 59:
		return fmt.Errorf("ending minute %d out of range", e.Minute)
	}
	// time.Date rolls Feb 31 over into March
	if t := time.Date(e.Year, time.Month(e.Month), e.Day, 0, 0, 0, 0, time.UTC); t.Day() != e.Day {
		return fmt.Errorf("ending date %04d-%02d-%02d does not exist", e.Year, e.Month, e.Day)
	}
	return nil
}
