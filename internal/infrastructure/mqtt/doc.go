// Package mqtt provides MQTT client connectivity for heoslink.
//
// It connects with a Last Will on <prefix>/system/status, lets paho
// reconnect on its own, and replays subscriptions after each reconnect.
// The status payload is a JSON SystemStatus.
//
// # Architecture
//
// MQTT is the optional outer surface of heoslink. The state bridge
// publishes the unified player and receiver state as retained JSON and
// takes commands from home automation systems.
//
//	Devices ↔ heoslink ↔ MQTT Broker ↔ Home automation / dashboards
//
// # Topic Layout
//
// All topics live under the configured prefix (default "heoslink"):
//
//	<prefix>/state/{player,receiver,roster}   retained JSON state
//	<prefix>/status                           latest status message
//	<prefix>/command/{player,receiver}        command intake
//	<prefix>/ack/{player,receiver}            command acknowledgements
//	<prefix>/system/status                    online/offline (LWT)
//
// # Security Considerations
//
//   - Enable TLS when the broker is not on the local host (cfg.Broker.TLS=true)
//   - Credentials should come from HEOSLINK_MQTT_USERNAME/PASSWORD
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(client.Topics().AllCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	client.Publish(client.Topics().State("receiver"), payload, 1, true)
package mqtt
