// Package heos implements the player control protocol: newline-delimited
// JSON over TCP port 1255.
//
// # Wire Format
//
// Commands are URL-like text lines terminated by CRLF:
//
//	heos://player/set_volume?pid=-1942439&level=30
//
// Parameter values are written verbatim; no escaping is performed.
//
// Every line the player sends is a JSON envelope:
//
//	{"heos": {"command": "player/get_volume", "result": "success",
//	          "message": "pid=-1942439&level=30"}}
//
// The envelope is decoded in two passes. ParseResponse reads the JSON, then
// Message splits the "&"-joined key=value pairs in the header. Envelopes
// without a result field are unsolicited events.
//
// # Events
//
// After RegisterForChangeEvents(true) the player pushes change events.
// Decode keeps the recognised ones (see EventKind) and drops the rest, so a
// session built on Decode never delivers unknown events or malformed lines.
//
// # Command Facade
//
// Handle turns each operation into one encoded line and hands it to a
// Submitter (normally a session). Submission is fire-and-forget: results
// come back through the session's notifications and are folded into state
// elsewhere.
//
//	h := heos.NewHandle(sess)
//	if err := h.SetVolume(ctx, pid, 30); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// Command values are immutable once built. Handle is safe for concurrent
// use when its Submitter is.
package heos
