package websocket

import (
	"encoding/json"
	"time"
)

const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// WSMessage is the envelope for every frame sent to clients. Report events
// use the event type (report.created, report.reviewed, ...) as Type.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func encodeMessage(msgType string, data interface{}, at time.Time) ([]byte, error) {
	if at.IsZero() {
		at = time.Now()
	}
	return json.Marshal(WSMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: at.UTC().Format(time.RFC3339),
	})
}

// handleClientMessage returns the reply to an inbound frame, or nil. Only
// application-level pings are answered; the feed is otherwise one-way.
func handleClientMessage(raw []byte) []byte {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil
	}
	if msg.Type != MessageTypePing {
		return nil
	}

	reply, err := encodeMessage(MessageTypePong, nil, time.Now())
	if err != nil {
		return nil
	}
	return reply
}
