package calendar

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Bar is a booking's contiguous run of visible days within one month.
// Clipped reports which ends of the booking fall outside the month.
type Bar struct {
	BookingID   uuid.UUID
	TrailerID   uuid.UUID
	Row         int
	Color       string
	Title       string
	Start       time.Time
	End         time.Time
	Days        int
	ClipsBefore bool
	ClipsAfter  bool
}

// Bars flattens a laid-out month into one bar per booking, ordered by row
// and then start date.
func Bars(m Month) []Bar {
	index := map[uuid.UUID]int{}
	bars := []Bar{}
	for _, w := range m.Weeks {
		for _, d := range w {
			if d.Blank {
				continue
			}
			for _, c := range d.Cells {
				s := c.Segment
				if s == nil {
					continue
				}
				i, seen := index[s.BookingID]
				if !seen {
					index[s.BookingID] = len(bars)
					bars = append(bars, Bar{
						BookingID:   s.BookingID,
						TrailerID:   s.TrailerID,
						Row:         c.Row,
						Color:       s.Color,
						Title:       s.Title,
						Start:       d.Date,
						ClipsBefore: s.Kind == KindMid || s.Kind == KindEnd,
					})
					i = len(bars) - 1
				}
				bars[i].End = d.Date
				bars[i].Days++
				bars[i].ClipsAfter = s.Kind == KindMid || s.Kind == KindStart
			}
		}
	}
	slices.SortStableFunc(bars, func(a, b Bar) int {
		if a.Row != b.Row {
			return a.Row - b.Row
		}
		return a.Start.Compare(b.Start)
	})
	return bars
}
