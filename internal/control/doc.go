// Package control runs the loop that ties the device sessions, the command
// facades and the Reconciler together.
//
// # Ownership
//
// One goroutine (Run) owns the Reconciler and both sessions. Session
// notifications and user requests are serialised through it, so state is
// never mutated concurrently. Readers take Snapshots, either by polling
// Snapshot or through Subscribe, which always holds the latest value.
//
// # Follow-up queries
//
// Some player events only announce that something changed. The loop
// answers them:
//
//   - player_now_playing_changed for the active player: get_now_playing_media
//   - players_changed: get_players
//   - player_queue_changed for the active player, once a queue was
//     fetched: get_queue
//
// Whenever a different player becomes active its play state, now playing
// media, volume, mute and play mode are requested.
//
// # Toggles
//
// The player has a native toggle_mute. The receiver does not, so its
// mute_toggle decides from the last reported mute state.
//
// # Reconnection
//
// There is none. A session that ends stays ended; verbs for it fail with
// ErrNotConnected until a new session is attached.
package control
