// Package schedule defines the interface for scheduling of bot actions
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcsantiago/gocron"
)

// Definition represents the frequency of a scheduled action
type Definition struct {
	// Internal value (every 1 minute would be expressed with an interval of 1). Must be set explicitly or implicitly (a weekday value implicitly sets the interval to 1)
	Interval uint64 `mapstructure:"interval"`

	// Must be set explicitly or implicitly ("weeks" is implicitly set when "Weekday" is set). Valid time units are: "weeks", "hours", "days", "minutes", "seconds"
	Unit string `mapstructure:"unit"`

	// Optional day of the week. If set, unit and interval are ignored and implicitly considered to be "every 1 week"
	Weekday string `mapstructure:"weekday"`

	// Optional "at time" value (i.e. "10:30")
	AtTime string `mapstructure:"atTime"`
}

// Unit values
const (
	Weeks   = "weeks"
	Hours   = "hours"
	Days    = "days"
	Minutes = "minutes"
	Seconds = "seconds"
)

var weekdays = map[string]bool{
	time.Monday.String():    true,
	time.Tuesday.String():   true,
	time.Wednesday.String(): true,
	time.Thursday.String():  true,
	time.Friday.String():    true,
	time.Saturday.String():  true,
	time.Sunday.String():    true,
}

var units = map[string]bool{Weeks: true, Hours: true, Days: true, Minutes: true, Seconds: true}

// String returns a human-friendly string for the schedule definition
func (d Definition) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Every ")

	if d.Weekday != "" {
		fmt.Fprintf(&b, "%s", d.Weekday)
	} else if d.Interval == 1 {
		fmt.Fprintf(&b, "%s", strings.TrimSuffix(d.Unit, "s"))
	} else {
		fmt.Fprintf(&b, "%d %s", d.Interval, d.Unit)
	}

	if d.AtTime != "" {
		fmt.Fprintf(&b, " at %s", d.AtTime)
	}

	return b.String()
}

// Validate returns an error if the definition can't be scheduled
func (d Definition) Validate() (err error) {
	if d.Weekday != "" {
		if !weekdays[d.Weekday] {
			return fmt.Errorf("Invalid weekday [%s]", d.Weekday)
		}

		return nil
	}

	if !units[d.Unit] {
		return fmt.Errorf("Invalid unit [%s], must be one of weeks, days, hours, minutes or seconds", d.Unit)
	}

	if d.Interval == 0 {
		return fmt.Errorf("Invalid interval [%d], must be at least 1", d.Interval)
	}

	return nil
}

// NewJob sets up the gocron.Job with the schedule and leaves the task undefined for the caller to set up
func NewJob(s *gocron.Scheduler, d Definition) (j *gocron.Job, err error) {
	if err = d.Validate(); err != nil {
		return nil, err
	}

	interval := d.Interval
	if d.Weekday != "" {
		interval = 1
	}

	j = s.Every(interval, false)

	switch d.Weekday {
	case time.Monday.String():
		j = j.Monday()
	case time.Tuesday.String():
		j = j.Tuesday()
	case time.Wednesday.String():
		j = j.Wednesday()
	case time.Thursday.String():
		j = j.Thursday()
	case time.Friday.String():
		j = j.Friday()
	case time.Saturday.String():
		j = j.Saturday()
	case time.Sunday.String():
		j = j.Sunday()
	default:
		switch d.Unit {
		case Weeks:
			j = j.Weeks()
		case Hours:
			j = j.Hours()
		case Days:
			j = j.Days()
		case Minutes:
			j = j.Minutes()
		case Seconds:
			j = j.Seconds()
		}
	}

	if d.AtTime != "" {
		j = j.At(d.AtTime)
	}

	if j.Err() != nil {
		return nil, j.Err()
	}

	return j, nil
}
