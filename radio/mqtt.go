package radio

import (
	"fmt"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// publisher is the part of mqtt.Client the transport uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes each reading to <prefix>/<id> at QoS 0 and does not wait for
// the broker, matching the radio link.
type MQTT struct {
	client publisher
	prefix string
}

func NewMQTT(client publisher, prefix string) *MQTT {
	return &MQTT{client: client, prefix: prefix}
}

// ConnectMQTT dials the broker once; the node does not retry.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout [%v]", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return client, nil
}

func (m *MQTT) SendMessage(id string, value float64, decimals int) error {
	return m.publish(id, strconv.FormatFloat(value, 'f', decimals, 64))
}

func (m *MQTT) SendStatus(status string) error {
	return m.publish("status", status)
}

func (m *MQTT) publish(leaf, payload string) error {
	topic := m.prefix + "/" + leaf
	token := m.client.Publish(topic, 0, false, payload)
	// a QoS 0 token completes as soon as the packet is queued
	select {
	case <-token.Done():
		return token.Error()
	default:
		return nil
	}
}
