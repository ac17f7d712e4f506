package ws

import (
	"encoding/json"
	"time"

	"alfred/internal/usecase"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Publisher adapts the hub to usecase.EventPublisher.
type Publisher struct {
	hub *Hub
	now func() time.Time
}

var _ usecase.EventPublisher = (*Publisher)(nil)

func NewPublisher(hub *Hub) *Publisher {
	return &Publisher{hub: hub, now: time.Now}
}

func (p *Publisher) Publish(eventType string, payload any) {
	if p == nil || p.hub == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      eventType,
		Data:      payload,
		Timestamp: p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.hub.logger.Warn("ws event encoding failed")
		return
	}
	p.hub.Broadcast(b)
}
