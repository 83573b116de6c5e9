// Package bridge mirrors heoslink state onto MQTT.
//
// The bridge sits between the control loop and an MQTT broker. Each
// snapshot published by the control loop is split into retained JSON
// messages:
//
//	<prefix>/state/player     active player, play state, queue, sources
//	<prefix>/state/receiver   power, volume, mute, surround, input
//	<prefix>/state/roster     players and the active index
//	<prefix>/status           latest status message
//
// A topic is only republished when its JSON changes.
//
// # Commands
//
// Commands arrive on <prefix>/command/player and <prefix>/command/receiver:
//
//	{"id": "c-1", "verb": "set_volume", "level": 30}
//	{"id": "c-2", "verb": "surround", "value": "PURE DIRECT"}
//	{"id": "c-3", "verb": "queue_play", "item": 12}
//
// Every command is acknowledged on <prefix>/ack/<target> with status
// "accepted" or "failed".
package bridge
