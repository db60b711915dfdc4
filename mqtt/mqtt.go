// mqtt.go - MQTT client used to publish library events to a broker
//
// Loan lifecycle events (issued, returned) are published as JSON so other
// systems can follow circulation. Users are never notified through here;
// their notifications stay in the database and are polled.

package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// Client publishes JSON payloads under a topic prefix.
type Client struct {
	client paho.Client
	prefix string
}

// Connect dials the broker and returns a ready client.
func Connect(broker, clientID, prefix string) (*Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt connection lost: %v", err)
		})

	c := paho.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("mqtt connect: timed out reaching %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	log.Printf("connected to MQTT broker %s", broker)
	return &Client{client: c, prefix: strings.Trim(prefix, "/")}, nil
}

// Publish sends payload as JSON to <prefix>/<topic> with QoS 1.
func (c *Client) Publish(topic string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mqtt encode: %w", err)
	}
	token := c.client.Publish(Topic(c.prefix, topic), 1, false, body)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish %s: timed out", topic)
	}
	return token.Error()
}

func (c *Client) Close() {
	c.client.Disconnect(250)
}

// Topic joins prefix and topic with a single slash.
func Topic(prefix, topic string) string {
	prefix = strings.Trim(prefix, "/")
	topic = strings.Trim(topic, "/")
	if prefix == "" {
		return topic
	}
	return prefix + "/" + topic
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) error { return nil }
