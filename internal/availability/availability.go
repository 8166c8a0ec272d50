// Package availability decides whether a trailer is free for a date range and
// splits a fleet into available and booked trailers.
//
// Everything here is a pure function over a snapshot of bookings; callers are
// expected to fetch a fresh snapshot for every question they ask.
package availability

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/glirentals/rentals-admin/internal/domain"
)

// Overlaps reports whether the inclusive ranges [aStart, aEnd] and
// [bStart, bEnd] share at least one calendar day. It is the single predicate
// used for every booking conflict check.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// RangesOverlap is Overlaps for two DateRange values.
func RangesOverlap(a, b domain.DateRange) bool {
	return Overlaps(a.Start, a.End, b.Start, b.End)
}

// Conflicts returns the bookings of trailerID whose dates overlap r, ordered
// by start date and then id. A booking whose id equals exclude is ignored, so
// a booking being edited never conflicts with itself.
func Conflicts(bookings []domain.Booking, trailerID uuid.UUID, r domain.DateRange, exclude *uuid.UUID) []domain.Booking {
	var out []domain.Booking
	for _, b := range bookings {
		if b.TrailerID != trailerID {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if RangesOverlap(b.Range(), r) {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return out
}

// IsAvailable reports whether no booking of trailerID other than exclude
// overlaps r.
func IsAvailable(bookings []domain.Booking, trailerID uuid.UUID, r domain.DateRange, exclude *uuid.UUID) bool {
	return len(Conflicts(bookings, trailerID, r, exclude)) == 0
}

// BookedTrailer is a trailer that cannot take the requested range.
// Conflict is the earliest-starting blocking booking; Conflicts lists every
// blocking booking, which only has more than one entry when the trailer has
// been double-booked.
type BookedTrailer struct {
	Trailer   domain.Trailer
	Conflict  domain.Booking
	Conflicts []domain.Booking
}

// Result is the fleet split for one date range. Available and Booked are
// disjoint and together hold every active trailer passed to Partition, in
// the order they were passed.
type Result struct {
	Range     domain.DateRange
	Available []domain.Trailer
	Booked    []BookedTrailer
}

// Partition splits the active trailers into those free for r and those
// blocked by at least one booking. Inactive trailers are left out of both.
func Partition(trailers []domain.Trailer, bookings []domain.Booking, r domain.DateRange) Result {
	res := Result{
		Range:     r,
		Available: []domain.Trailer{},
		Booked:    []BookedTrailer{},
	}
	for _, t := range trailers {
		if !t.Active {
			continue
		}
		conflicts := Conflicts(bookings, t.ID, r, nil)
		if len(conflicts) == 0 {
			res.Available = append(res.Available, t)
			continue
		}
		res.Booked = append(res.Booked, BookedTrailer{
			Trailer:   t,
			Conflict:  conflicts[0],
			Conflicts: conflicts,
		})
	}
	return res
}

// CoveringDay returns the first booking of trailerID that covers day, if any.
func CoveringDay(bookings []domain.Booking, trailerID uuid.UUID, day time.Time) (domain.Booking, bool) {
	day = domain.DateOf(day)
	hits := Conflicts(bookings, trailerID, domain.DateRange{Start: day, End: day}, nil)
	if len(hits) == 0 {
		return domain.Booking{}, false
	}
	return hits[0], true
}

func sortByStart(bs []domain.Booking) {
	slices.SortStableFunc(bs, func(a, b domain.Booking) int {
		if c := a.StartDate.Compare(b.StartDate); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
}
