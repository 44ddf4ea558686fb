// Package phh records hands in the Poker Hand History format.
package phh

import "time"

// HandHistory is a single hand encoded in PHH format.
type HandHistory struct {
	Variant           string   `toml:"variant"`
	Table             string   `toml:"table,omitempty"`
	SeatCount         int      `toml:"seat_count,omitempty"`
	Seats             []int    `toml:"seats,omitempty"`
	Antes             []int    `toml:"antes"`
	BlindsOrStraddles []int    `toml:"blinds_or_straddles"`
	MinBet            int      `toml:"min_bet"`
	StartingStacks    []int    `toml:"starting_stacks"`
	FinishingStacks   []int    `toml:"finishing_stacks,omitempty"`
	Winnings          []int    `toml:"winnings,omitempty"`
	Actions           []string `toml:"actions"`
	Players           []string `toml:"players,omitempty"`
	HandID            string   `toml:"hand"`
	HandNumber        int      `toml:"hand_number,omitempty"`
	Time              string   `toml:"time,omitempty"`
	TimeZone          string   `toml:"time_zone,omitempty"`
	Day               int      `toml:"day,omitempty"`
	Month             int      `toml:"month,omitempty"`
	Year              int      `toml:"year,omitempty"`

	Timestamp time.Time `toml:"-"`
}

func (h *HandHistory) setTime(ts time.Time) {
	if ts.IsZero() {
		return
	}
	ts = ts.UTC()
	h.Timestamp = ts
	h.Time = ts.Format("15:04:05")
	h.TimeZone = "UTC"
	h.Day = ts.Day()
	h.Month = int(ts.Month())
	h.Year = ts.Year()
}
