package main

import (
	"flag"
	"log"
	"os"

	"github.com/robotalks/remotelink/pkg/comm/mqtt"
	"github.com/robotalks/remotelink/pkg/msgs"
)

var (
	mqttURL    = mqtt.DefaultBrokerURL
	bridgeType string
)

func init() {
	if val := os.Getenv("REMOTE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&bridgeType, "type", bridgeType, "Only show bridges of this type.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}

	q.Sub(mqtt.Selector{Type: bridgeType}, func(msg *mqtt.Message) {
		topic := msg.Topic()
		switch {
		case msg.Cleared():
			log.Printf("%s: cleared", topic)
		case msg.Kind == mqtt.TopicMeta:
			log.Printf("%s: %s", topic, string(msg.Payload))
		default:
			typed, err := msgs.DecodeTyped(msg.Payload)
			if err != nil {
				log.Printf("%s: bad message: %v", topic, err)
				return
			}
			log.Printf("%s: %s", topic, msgs.Format(typed))
		}
	})
	<-(chan struct{})(nil)
}
