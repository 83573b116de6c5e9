// Package avr implements the receiver control protocol: carriage return
// terminated ASCII lines over TCP port 23.
//
// Commands are literal strings such as "PWON", "MV45" or "MSSTEREO". Every
// reply and every unsolicited notification is a single line classified by
// its first two characters:
//
//	MV  master volume ("MV45", or "MV455" for 45.5)
//	MU  mute ("MUON", "MUOFF")
//	PW  power ("PWON", "PWSTANDBY")
//	SI  input source ("SITV")
//	MS  surround mode ("MSSTEREO")
//
// Anything else decodes as a raw event. The protocol has no result flag,
// so a reply to a query and a state change made on the front panel decode
// identically.
package avr
