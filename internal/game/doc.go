// Package game implements the Texas Hold'em table state machine.
//
// A Table owns a Room and its seats for the lifetime of the process. It deals
// hands, validates and applies actions, advances streets, runs out the board
// when no further betting is possible, and settles the single main pot at
// showdown or when everyone else folds.
//
// # Basic Usage
//
//	room := game.NewRoom("main", 6, 5, 10)
//	room.AddSeat("alice", "Alice", 1000, false)
//	room.AddSeat("bob", "Bob", 1000, true)
//
//	t := game.NewTable(room, game.WithRNG(randutil.New(42)))
//	if err := t.StartHand(); err != nil {
//	    return err
//	}
//	err := t.Apply(t.ToAct, game.Call, 0)
//	var rej *game.RejectedError
//	if errors.As(err, &rej) {
//	    // state is unchanged
//	}
//
// Table is not safe for concurrent use; the engine package serialises access.
//
// # Invariants
//
// Between calls the following hold and are checked by Table.Validate:
//   - the sum of stacks plus the pot equals the chips at hand start
//   - CurrentBet equals the largest bet among non-folded seats
//   - the community card count matches the street
//   - ToAct, when set, names a seat that is neither folded nor all-in
package game
