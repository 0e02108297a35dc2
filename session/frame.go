/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"encoding/json"
	"strconv"
)

// Websocket event names. They match the socket.io events the display
// clients were written against.
const (
	EventControl = "control_event"
	EventJoin    = "join"
	EventStatus  = "status"
)

// Envelope is a single websocket message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeEnvelope reads an inbound message. Data keeps the exact bytes the
// client sent.
func DecodeEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(raw, &env)

	return env, err
}

// Frame wraps data in an envelope without re-encoding it, so relayed
// payloads reach the prompters byte for byte.
func Frame(event string, data []byte) []byte {
	if len(data) == 0 {
		data = []byte("null")
	}

	buf := make([]byte, 0, len(event)+len(data)+24)
	buf = append(buf, `{"event":`...)
	buf = strconv.AppendQuote(buf, event)
	buf = append(buf, `,"data":`...)
	buf = append(buf, data...)

	return append(buf, '}')
}

func frameJSON(event string, v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	return Frame(event, data)
}
