package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"aqi_predictor/internal/logger"
	"aqi_predictor/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

var (
	ErrNotConnected = errors.New("mqtt client not connected")
	ErrStopped      = errors.New("mqtt client stopped")
)

const publishTimeout = 5 * time.Second

type MQTTOptions struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// MQTT publishes each reading as JSON to <Topic>/<location>.
type MQTT struct {
	client mqtt.Client
	opts   MQTTOptions
	log    *logger.Logger

	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewMQTT(o MQTTOptions, log *logger.Logger) (*MQTT, error) {
	if strings.TrimSpace(o.Broker) == "" {
		return nil, errors.New("mqtt broker is empty")
	}
	if strings.TrimSpace(o.Topic) == "" {
		return nil, errors.New("mqtt topic is empty")
	}
	if o.QoS > 2 {
		return nil, fmt.Errorf("invalid mqtt qos %d", o.QoS)
	}

	p := &MQTT{
		opts:   o,
		log:    logger.OrNop(log),
		stopCh: make(chan struct{}),
	}

	co := mqtt.NewClientOptions()
	co.AddBroker(o.Broker)
	co.SetClientID(o.ClientID)
	co.SetCleanSession(true)
	co.SetAutoReconnect(true)
	co.SetConnectRetry(true)
	co.SetConnectRetryInterval(5 * time.Second)
	co.SetMaxReconnectInterval(60 * time.Second)
	co.SetKeepAlive(30 * time.Second)
	co.SetPingTimeout(10 * time.Second)

	co.SetOnConnectHandler(func(_ mqtt.Client) {
		p.setConnected(true)
		p.log.Infow("mqtt_connected", "broker", o.Broker)
	})
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.setConnected(false)
		p.log.Warnw("mqtt_connection_lost", "error", err)
	})

	p.client = mqtt.NewClient(co)
	return p, nil
}

// Connect waits for the first connection. It returns early when ctx is done
// or Close has been called.
func (p *MQTT) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return ErrStopped
	default:
	}

	if p.IsConnected() {
		return nil
	}

	token := p.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stopCh:
			return ErrStopped
		default:
		}
	}
}

func (p *MQTT) Publish(ctx context.Context, r models.Reading) error {
	if !p.IsConnected() {
		return ErrNotConnected
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}

	topic := TopicFor(p.opts.Topic, r.Location)
	token := p.client.Publish(topic, p.opts.QoS, false, data)

	wait := publishTimeout
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < wait {
		wait = time.Until(dl)
	}
	if !token.WaitTimeout(wait) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish reading: %w", err)
	}

	p.log.Debugw("reading_published", "topic", topic, "reading_id", r.ID)
	return nil
}

func (p *MQTT) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Close is idempotent. After Close, Connect returns ErrStopped.
func (p *MQTT) Close() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.client.Disconnect(250)
		p.setConnected(false)
		p.log.Infow("mqtt_disconnected")
	})
}

func (p *MQTT) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}

// TopicFor builds the per-location topic. MQTT wildcard and separator
// characters in the location are replaced so one location maps to one level.
func TopicFor(base, location string) string {
	slug := strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ':
			return '_'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(location)))
	if slug == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + slug
}
