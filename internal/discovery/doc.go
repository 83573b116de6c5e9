// Package discovery finds players on the local network.
//
// The primary probe is SSDP: one M-SEARCH per search target is sent from a
// single UDP socket to the multicast group, then replies are read until the
// deadline. A reply is a candidate when it mentions a known vendor
// keyword; candidates are deduplicated by source IP. An optional mDNS
// browse for the player service type runs alongside.
//
// Discovery is a heuristic. It never reports "nothing found" as an error
// from Discover; DiscoverFirst wraps that case in ErrNoDevice for callers
// that need an address.
package discovery
