package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ClockTime is a time of day at minute resolution.
type ClockTime struct {
	Hour   int // 0-23
	Minute int
}

// String renders the time as "h:mm AM".
func (c ClockTime) String() string {
	h := c.Hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if c.Hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute, suffix)
}

func (c ClockTime) minutes() int { return c.Hour*60 + c.Minute }

// DeliveryTime is either a single time of day or a window. It is stored on
// the booking as formatted text ("9:00 AM" or "9:00 AM - 11:30 AM").
type DeliveryTime struct {
	Start ClockTime
	End   *ClockTime
}

// IsWindow reports whether the delivery time is a range.
func (d DeliveryTime) IsWindow() bool { return d.End != nil }

// String renders the canonical stored form.
func (d DeliveryTime) String() string {
	if d.End == nil {
		return d.Start.String()
	}
	return d.Start.String() + " - " + d.End.String()
}

var clockPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)

// ParseDeliveryTime parses "h:mm AM" or "h:mm AM - h:mm PM".
func ParseDeliveryTime(s string) (DeliveryTime, error) {
	s = strings.TrimSpace(s)
	startText, endText, isWindow := strings.Cut(s, " - ")

	start, err := parseClock(startText)
	if err != nil {
		return DeliveryTime{}, err
	}
	d := DeliveryTime{Start: start}
	if !isWindow {
		return d, nil
	}

	end, err := parseClock(endText)
	if err != nil {
		return DeliveryTime{}, err
	}
	if end.minutes() < start.minutes() {
		return DeliveryTime{}, fmt.Errorf("%w: delivery window %q ends before it starts", ErrValidation, s)
	}
	d.End = &end
	return d, nil
}

// NormalizeDeliveryTime returns the canonical form of s, or "" when s is blank.
func NormalizeDeliveryTime(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	d, err := ParseDeliveryTime(s)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func parseClock(s string) (ClockTime, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ClockTime{}, fmt.Errorf("%w: invalid delivery time %q, expected h:mm AM", ErrValidation, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: invalid delivery time %q", ErrValidation, s)
	}
	hour %= 12
	if strings.EqualFold(m[3], "PM") {
		hour += 12
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}
