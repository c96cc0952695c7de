package hours

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 8, 30, hour, min, 0, 0, time.Local)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("09:00", "23:00")
	if err != nil {
		t.Fatalf("ParseWindow error: %v", err)
	}
	if w.Start() != "09:00" || w.End() != "23:00" {
		t.Errorf("window = %s-%s, want 09:00-23:00", w.Start(), w.End())
	}
}

func TestParseWindow_Invalid(t *testing.T) {
	for _, tc := range [][2]string{{"9am", "23:00"}, {"09:00", "25:61"}, {"", "23:00"}} {
		if _, err := ParseWindow(tc[0], tc[1]); err == nil {
			t.Errorf("ParseWindow(%q, %q) expected error", tc[0], tc[1])
		}
	}
}

func TestWindow_Within(t *testing.T) {
	w, err := ParseWindow("09:00", "23:00")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		t    time.Time
		want bool
	}{
		{at(9, 0), true},
		{at(12, 30), true},
		{at(22, 59), true},
		{at(23, 0), false},
		{at(8, 59), false},
		{at(2, 0), false},
	}
	for _, tt := range tests {
		if got := w.Within(tt.t); got != tt.want {
			t.Errorf("Within(%s) = %v, want %v", tt.t.Format("15:04"), got, tt.want)
		}
	}
}

func TestWindow_Overnight(t *testing.T) {
	w, err := ParseWindow("21:00", "06:00")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		t    time.Time
		want bool
	}{
		{at(21, 0), true},
		{at(23, 59), true},
		{at(2, 0), true},
		{at(5, 59), true},
		{at(6, 0), false},
		{at(12, 0), false},
		{at(20, 59), false},
	}
	for _, tt := range tests {
		if got := w.Within(tt.t); got != tt.want {
			t.Errorf("Within(%s) = %v, want %v", tt.t.Format("15:04"), got, tt.want)
		}
	}
}

func TestCronExpr(t *testing.T) {
	w, err := ParseWindow("09:30", "23:00")
	if err != nil {
		t.Fatal(err)
	}
	if got := cronExpr(w.start); got != "30 9 * * *" {
		t.Errorf("cronExpr(start) = %q, want %q", got, "30 9 * * *")
	}
	if got := cronExpr(w.end); got != "0 23 * * *" {
		t.Errorf("cronExpr(end) = %q, want %q", got, "0 23 * * *")
	}
}
