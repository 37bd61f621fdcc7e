// Package mqtt pushes alert payloads and audio commands to display
// surfaces. Delivery is best-effort: a surface that misses a publish pulls
// the active alert over HTTP instead.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/minaretlabs/minaret/internal/model"
)

const (
	alertTopic = "minaret/alerts"
	audioTopic = "minaret/audio"
)

var messagePubHandler mqtt.MessageHandler = func(client mqtt.Client, msg mqtt.Message) {
	log.Debug().Str("topic", msg.Topic()).Msg("mqtt message received")
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Publisher fans alerts and audio commands out over the broker.
type Publisher struct {
	client mqtt.Client
	audio  AudioSources
}

// AudioSources resolves the playback source for an alert kind: the custom
// uploaded sound when one exists, the bundled default otherwise.
type AudioSources interface {
	Source(kind model.AlertKind) string
}

func Connect(brokerURL, clientID string, audio AudioSources) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetDefaultPublishHandler(messagePubHandler)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("MQTT publisher initialized")
	return &Publisher{client: client, audio: audio}, nil
}

func (p *Publisher) publish(topic string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to marshal mqtt payload")
		return
	}
	token := p.client.Publish(topic, 1, false, raw)
	token.Wait()
	if token.Error() != nil {
		log.Error().Err(token.Error()).Str("topic", topic).Msg("mqtt publish failed")
	}
}

// PushAlert sends the payload to every subscribed display surface.
func (p *Publisher) PushAlert(payload model.AlertPayload, ttl time.Duration) {
	p.publish(alertTopic, payload)
}

// AlertClosed tells surfaces to drop the alert they are showing.
func (p *Publisher) AlertClosed() {
	p.publish(alertTopic, map[string]string{"action": "ALERT_CLOSED"})
}

// Play commands the audio subsystem to start the sound for kind.
func (p *Publisher) Play(kind model.AlertKind) {
	source := ""
	if p.audio != nil {
		source = p.audio.Source(kind)
	}
	p.publish(audioTopic, map[string]any{
		"action": "PLAY_AUDIO",
		"source": source,
		"volume": 1.0,
	})
}

// Stop commands the audio subsystem to stop playback.
func (p *Publisher) Stop() {
	p.publish(audioTopic, map[string]string{"action": "STOP_AUDIO"})
}
