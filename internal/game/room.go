package game

import "fmt"

// Status is the room lifecycle state.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusRunning Status = "running"
)

// Room is the seat arrangement and blind structure of one table.
// A Table is its only writer once play starts.
type Room struct {
	ID         string
	Seats      []*Seat
	SeatsMax   int
	SmallBlind int
	BigBlind   int
	Status     Status
	HandNumber int
	DealerPos  int
}

// NewRoom creates an empty room. The first hand puts the dealer button on seat 0.
func NewRoom(id string, seatsMax, smallBlind, bigBlind int) *Room {
	return &Room{
		ID:         id,
		SeatsMax:   seatsMax,
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		Status:     StatusWaiting,
		DealerPos:  -1,
	}
}

// AddSeat seats a player in the next free seat.
func (r *Room) AddSeat(id, name string, stack int, isBot bool) (*Seat, error) {
	if r.IsFull() {
		return nil, fmt.Errorf("%w: %d seats", ErrRoomFull, r.SeatsMax)
	}
	if r.Seat(id) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
	}
	seat := &Seat{
		ID:        id,
		Name:      name,
		Stack:     stack,
		SeatIndex: len(r.Seats),
		IsBot:     isBot,
		Folded:    true,
	}
	r.Seats = append(r.Seats, seat)
	return seat, nil
}

// RemoveSeat removes a player and reindexes the remaining seats. Callers must
// not remove seats while a hand is in progress; Table.Leave enforces that.
func (r *Room) RemoveSeat(id string) error {
	idx := -1
	for i, s := range r.Seats {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	r.Seats = append(r.Seats[:idx], r.Seats[idx+1:]...)
	for i, s := range r.Seats {
		s.SeatIndex = i
	}
	if idx <= r.DealerPos {
		r.DealerPos--
	}
	return nil
}

// IsFull reports whether every seat is taken.
func (r *Room) IsFull() bool {
	return r.SeatsMax > 0 && len(r.Seats) >= r.SeatsMax
}

// Seat returns the seat for a player id, or nil.
func (r *Room) Seat(id string) *Seat {
	for _, s := range r.Seats {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// FundedSeats returns the number of seats with chips.
func (r *Room) FundedSeats() int {
	n := 0
	for _, s := range r.Seats {
		if s.Stack > 0 {
			n++
		}
	}
	return n
}

// TotalStacks returns the sum of all stacks.
func (r *Room) TotalStacks() int {
	total := 0
	for _, s := range r.Seats {
		total += s.Stack
	}
	return total
}
