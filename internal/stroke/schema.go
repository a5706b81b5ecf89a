package stroke

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MessageType constants for WebSocket communication
const (
	TypeDraw       = "draw"
	TypeSocketDraw = "socket_draw"
)

// Message is the envelope for all WebSocket messages
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// EncodeDraw builds the client to relay message for s.
func EncodeDraw(s Stroke) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal stroke: %w", err)
	}
	return json.Marshal(Message{Type: TypeDraw, Data: data})
}

// Decode parses an envelope without looking at its payload.
func Decode(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: envelope: %v", ErrMalformed, err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("%w: envelope without type", ErrMalformed)
	}
	return msg, nil
}

// DecodeStroke parses and validates a draw payload.
func DecodeStroke(data json.RawMessage) (Stroke, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Stroke{}, fmt.Errorf("%w: missing payload", ErrMalformed)
	}
	var s Stroke
	if err := json.Unmarshal(data, &s); err != nil {
		return Stroke{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := s.Validate(); err != nil {
		return Stroke{}, err
	}
	return s, nil
}

// Relayed wraps a draw payload, byte for byte, in a socket_draw envelope.
func Relayed(data json.RawMessage) []byte {
	const prefix = `{"type":"` + TypeSocketDraw + `","data":`
	out := make([]byte, 0, len(prefix)+len(data)+1)
	out = append(out, prefix...)
	out = append(out, data...)
	return append(out, '}')
}
