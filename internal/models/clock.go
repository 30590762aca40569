package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// TimeOfDay is a wall-clock time stored as whole seconds since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayOf returns the wall-clock time of t with sub-second precision
// truncated.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay accepts HH:MM:SS or HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q, want HH:MM[:SS]", s)
}

func (t TimeOfDay) Hour() int {
	return int(t) / 3600
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(t)/3600, int(t)%3600/60, int(t)%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Window is an inclusive time-of-day range. When Start is after End the
// window crosses midnight.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

var DefaultWindow = Window{Start: NewTimeOfDay(0, 0, 0), End: NewTimeOfDay(5, 0, 0)}

func (w Window) CrossesMidnight() bool {
	return w.Start > w.End
}

func (w Window) Contains(t TimeOfDay) bool {
	if w.CrossesMidnight() {
		return t >= w.Start || t <= w.End
	}
	return t >= w.Start && t <= w.End
}

// Hours lists the hour buckets the window touches, in window order. Each
// hour appears at most once, so a window that wraps around inside a
// single hour yields all 24 buckets starting at the start hour.
func (w Window) Hours() []int {
	first, last := w.Start.Hour(), w.End.Hour()
	if w.CrossesMidnight() {
		last += 24
	}
	last = min(last, first+23)
	hours := make([]int, 0, last-first+1)
	for h := first; h <= last; h++ {
		hours = append(hours, h%24)
	}
	return hours
}

func (w Window) Validate() error {
	if w.Start < 0 || w.Start >= secondsPerDay || w.End < 0 || w.End >= secondsPerDay {
		return fmt.Errorf("window %s-%s out of range", w.Start, w.End)
	}
	return nil
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// HourLabel formats an hour bucket as HH:00.
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
