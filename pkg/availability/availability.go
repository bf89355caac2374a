// Package availability computes the booking status of every seat in a
// persisted layout.
//
// It is the downstream reader of the layout format: trip search and seat
// selection screens load the element array, pass in the bookings for a
// trip, and color seats by the returned [Status]. Only enabled seats are
// bookable; other elements and disabled seats are absent from the result.
package availability

import (
	"time"

	"github.com/matzehuels/seatmap/pkg/layout"
)

// Status is the customer-facing state of one seat.
type Status string

const (
	StatusAvailable     Status = "available"
	StatusSelected      Status = "selected"
	StatusBooked        Status = "booked"
	StatusUnpaid        Status = "unpaid"
	StatusCurrentTicket Status = "currentTicket"
)

// Booking is a reservation of one or more seats. Seats holds references
// in any form [SeatRef] understands.
type Booking struct {
	ID              string     `json:"id"`
	Seats           []any      `json:"seats"`
	Paid            bool       `json:"paid"`
	Cancelled       bool       `json:"cancelled"`
	PaymentDeadline *time.Time `json:"paymentDeadline,omitempty"`
}

// Expired reports whether an unpaid booking's deadline passed before now.
// Bookings without a deadline never expire.
func (b Booking) Expired(now time.Time) bool {
	return b.PaymentDeadline != nil && b.PaymentDeadline.Before(now)
}

// SeatIDs returns the seat ids the booking references, skipping entries
// that carry none.
func (b Booking) SeatIDs() []string {
	ids := make([]string, 0, len(b.Seats))
	for _, ref := range b.Seats {
		if id, ok := SeatRef(ref); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Options is the viewer's context.
type Options struct {
	Now           time.Time // zero means time.Now()
	CurrentTicket string    // booking id being viewed or changed
	Selected      []string  // seat ids picked but not yet booked
}

// SeatRef extracts a seat id from a booking reference. It accepts a plain
// id string, {"seat": id}, {"seat": {...}} and any object carrying "id"
// or "_id".
func SeatRef(ref any) (string, bool) {
	switch v := ref.(type) {
	case string:
		return v, v != ""
	case map[string]any:
		if seat, ok := v["seat"]; ok {
			return SeatRef(seat)
		}
		for _, key := range []string{"id", "_id"} {
			if id, ok := v[key].(string); ok && id != "" {
				return id, true
			}
		}
	}
	return "", false
}

// Compute returns the status of every enabled seat in elements.
//
// Precedence, highest first: seats in the current ticket's booking,
// seats in a paid booking, seats held by an unpaid booking that has not
// expired, the viewer's selection. Cancelled bookings are ignored except
// for the current ticket.
func Compute(elements []layout.Element, bookings []Booking, opts Options) map[string]Status {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	out := make(map[string]Status, len(elements))
	for _, e := range elements {
		if e.IsSeat() && !e.Disabled {
			out[e.ID] = StatusAvailable
		}
	}

	set := func(id string, s Status) {
		if cur, ok := out[id]; ok && rank(s) > rank(cur) {
			out[id] = s
		}
	}

	for _, id := range opts.Selected {
		set(id, StatusSelected)
	}
	for _, b := range bookings {
		var s Status
		switch {
		case opts.CurrentTicket != "" && b.ID == opts.CurrentTicket:
			s = StatusCurrentTicket
		case b.Cancelled:
			continue
		case b.Paid:
			s = StatusBooked
		case !b.Expired(now):
			s = StatusUnpaid
		default:
			continue
		}
		for _, id := range b.SeatIDs() {
			set(id, s)
		}
	}
	return out
}

// Count tallies statuses, e.g. to show "12 of 40 seats left".
func Count(statuses map[string]Status) map[Status]int {
	out := make(map[Status]int)
	for _, s := range statuses {
		out[s]++
	}
	return out
}

func rank(s Status) int {
	switch s {
	case StatusSelected:
		return 1
	case StatusUnpaid:
		return 2
	case StatusBooked:
		return 3
	case StatusCurrentTicket:
		return 4
	}
	return 0
}
