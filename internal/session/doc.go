// Package session manages one TCP control connection per device.
//
// A Session runs two goroutines for the lifetime of the connection:
//
//   - the read loop splits the stream into lines (CR or LF terminated),
//     passes each through the codec's decode step and emits the results
//     on the Events channel in arrival order
//   - the write loop drains a bounded queue of encoded commands and is the
//     only code that writes to the socket
//
// Submission is fire-and-forget. Submit fails with ErrDisconnected only
// when no live writer exists; a write that fails later surfaces through
// the read loop as Disconnected or Error.
//
// # Lifecycle
//
//	sess, err := session.Dial(ctx, session.Config{
//	    Name: "heos", Host: host, Port: heos.DefaultPort,
//	}, heos.Decode)
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	for n := range sess.Events() {
//	    // Connected, then Message..., then Disconnected or Error
//	}
//
// The package never reconnects. Dialling again after a disconnect is the
// caller's decision.
package session
