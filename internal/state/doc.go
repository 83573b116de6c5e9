// Package state folds the asynchronous traffic of both devices into one
// unified application state.
//
// The Reconciler is pure: it never performs I/O and never emits anything.
// Every change to player, receiver, roster and status data goes through it,
// so the goroutine that owns it is the only writer. Readers get Snapshots,
// which are deep copies.
//
// Rules:
//
//   - changes apply only when they concern the active player; everything
//     else is observed and discarded
//   - a failed command response only sets the status slot
//   - a query response and the matching change event update fields
//     through the same code path
//   - selecting a player resets its transient fields pending a refresh
package state
