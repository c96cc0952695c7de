package hours

import (
	"fmt"
	"time"
)

// Window is a daily business-hours window. End before Start means the
// window crosses midnight.
type Window struct {
	start time.Duration // offset from local midnight
	end   time.Duration
}

func ParseWindow(start, end string) (Window, error) {
	s, err := parseClock(start)
	if err != nil {
		return Window{}, fmt.Errorf("parse business hours start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Window{}, fmt.Errorf("parse business hours end: %w", err)
	}
	return Window{start: s, end: e}, nil
}

func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (w Window) Within(t time.Time) bool {
	offset := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second

	if w.start <= w.end {
		return offset >= w.start && offset < w.end
	}
	// overnight window, e.g. 21:00-06:00
	return offset >= w.start || offset < w.end
}

func (w Window) Start() string { return clockString(w.start) }
func (w Window) End() string   { return clockString(w.end) }

func clockString(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
