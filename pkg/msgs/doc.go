// Package msgs defines the messages a remote bridge publishes and the
// Typed envelope carrying them over MQTT and websocket.
package msgs
