// Package calendar lays out a month of bookings as a Gantt-style grid: one
// row per trailer, one Sunday-first week per grid line, and a bar segment in
// every (day, trailer) cell a booking covers.
package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/domain"
)

// Palette holds the row colors. A trailer's color is Palette[row % len(Palette)],
// so rows eight apart share a color.
var Palette = [8]string{
	"#3b82f6",
	"#f97316",
	"#22c55e",
	"#a855f7",
	"#ec4899",
	"#14b8a6",
	"#eab308",
	"#ef4444",
}

// ColorFor returns the palette color for a row index.
func ColorFor(index int) string {
	return Palette[index%len(Palette)]
}

// Kind classifies a bar segment by where its day falls in the booking.
type Kind string

const (
	KindSingle Kind = "single"
	KindStart  Kind = "start"
	KindEnd    Kind = "end"
	KindMid    Kind = "mid"
)

// Row is one trailer's lane in the grid.
type Row struct {
	Index     int
	TrailerID uuid.UUID
	Name      string
	Color     string
}

// Segment is the piece of a booking bar drawn in one day cell.
type Segment struct {
	BookingID uuid.UUID
	TrailerID uuid.UUID
	Kind      Kind
	Color     string
	Label     string
	Title     string
}

// Cell is one row's slot on one day. Segment is nil when the trailer is free.
type Cell struct {
	Row     int
	Segment *Segment
}

// Day is one square of the month grid. Padding squares before the 1st and
// after the last day have Blank set and carry nothing else.
type Day struct {
	Blank bool
	Date  time.Time
	Day   int
	Today bool
	Cells []Cell
}

// Week is seven Days, Sunday first.
type Week [7]Day

// Month is the complete layout for one calendar month.
type Month struct {
	Year  int
	Month time.Month
	Rows  []Row
	Weeks []Week
}

// Layout builds the grid for year/month. Row order and color follow the order
// of trailers, which callers must keep stable across renders. Bookings of
// trailers missing from the list are ignored. Only days inside the month get
// segments; a booking that started last month shows its first visible day as
// a mid or end segment.
func Layout(year int, month time.Month, trailers []domain.Trailer, bookings []domain.Booking, today time.Time) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	today = domain.DateOf(today)

	m := Month{
		Year:  first.Year(),
		Month: first.Month(),
		Rows:  make([]Row, len(trailers)),
	}
	rowOf := make(map[uuid.UUID]int, len(trailers))
	for i, t := range trailers {
		m.Rows[i] = Row{Index: i, TrailerID: t.ID, Name: t.Name, Color: ColorFor(i)}
		rowOf[t.ID] = i
	}

	// bookings by row, so each cell only scans its own trailer
	byRow := make([][]domain.Booking, len(trailers))
	for _, b := range bookings {
		row, ok := rowOf[b.TrailerID]
		if !ok {
			continue
		}
		byRow[row] = append(byRow[row], b)
	}

	offset := int(first.Weekday())
	cells := offset + daysInMonth
	weeks := (cells + 6) / 7
	m.Weeks = make([]Week, weeks)

	for slot := 0; slot < weeks*7; slot++ {
		w, col := slot/7, slot%7
		dayNum := slot - offset + 1
		if dayNum < 1 || dayNum > daysInMonth {
			m.Weeks[w][col] = Day{Blank: true}
			continue
		}
		date := first.AddDate(0, 0, dayNum-1)
		d := Day{
			Date:  date,
			Day:   dayNum,
			Today: date.Equal(today),
			Cells: make([]Cell, len(trailers)),
		}
		for row := range trailers {
			d.Cells[row] = Cell{Row: row, Segment: segmentFor(date, m.Rows[row], byRow[row])}
		}
		m.Weeks[w][col] = d
	}
	return m
}

// segmentFor returns the segment drawn for row on date, or nil. If two
// bookings cover the same day the earliest-starting one wins.
func segmentFor(date time.Time, row Row, bookings []domain.Booking) *Segment {
	var hit *domain.Booking
	for i := range bookings {
		b := &bookings[i]
		if date.Before(b.StartDate) || date.After(b.EndDate) {
			continue
		}
		if hit == nil || b.StartDate.Before(hit.StartDate) {
			hit = b
		}
	}
	if hit == nil {
		return nil
	}

	seg := &Segment{
		BookingID: hit.ID,
		TrailerID: hit.TrailerID,
		Kind:      kindOf(date, hit.StartDate, hit.EndDate),
		Color:     row.Color,
		Title:     row.Name + " - " + hit.CustomerName,
	}
	switch {
	case date.Equal(hit.StartDate):
		seg.Label = row.Name
	case date.Equal(hit.StartDate.AddDate(0, 0, 1)):
		seg.Label = hit.CustomerName
	}
	return seg
}

func kindOf(date, start, end time.Time) Kind {
	isStart, isEnd := date.Equal(start), date.Equal(end)
	switch {
	case isStart && isEnd:
		return KindSingle
	case isStart:
		return KindStart
	case isEnd:
		return KindEnd
	default:
		return KindMid
	}
}
