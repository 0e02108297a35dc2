/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"encoding/json"
	"strings"

	"github.com/Seednode/teleprompter/paragraphs"
)

// Control event types the server keeps state for.
const (
	TypeLoad         = "load"
	TypeSetPosition  = "set_position"
	TypeSetFontSize  = "set_font_size"
	TypeScroll       = "scroll"
	TypeSetFont      = "set_font"
	TypeSetUppercase = "set_uppercase"
)

// SpeedUnchanged in a scroll event toggles play/pause without replacing
// the chosen speed. Any negative speed is treated the same way.
const SpeedUnchanged = -1

// Event is a decoded control event. Every variant is relayed to the
// prompters as the raw payload it was decoded from.
type Event interface {
	Kind() string
}

type Load struct {
	Paragraphs []paragraphs.Paragraph
}

type SetPosition struct {
	Pos *float64
}

type SetFontSize struct {
	Size *float64
}

type Scroll struct {
	Speed float64
}

type SetFont struct {
	Font string
}

type SetUppercase struct {
	Enabled bool
}

// Unknown carries a typed event the server has no state for, such as the
// client-only "jump", "flip" and "fit_to_screen".
type Unknown struct {
	Type string
}

func (Load) Kind() string         { return TypeLoad }
func (SetPosition) Kind() string  { return TypeSetPosition }
func (SetFontSize) Kind() string  { return TypeSetFontSize }
func (Scroll) Kind() string       { return TypeScroll }
func (SetFont) Kind() string      { return TypeSetFont }
func (SetUppercase) Kind() string { return TypeSetUppercase }
func (e Unknown) Kind() string    { return e.Type }

// Decode reads a control event payload. It reports false when the payload
// is not a JSON object or has no usable "type"; such events are dropped.
func Decode(payload []byte) (Event, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return nil, false
	}

	kind, ok := eventType(fields["type"])
	if !ok {
		return nil, false
	}

	switch kind {
	case TypeLoad:
		// A load without a usable paragraph list is relayed but never
		// replaces the script.
		raw, ok := fields["paragraphs"]
		if !ok {
			return Unknown{Type: kind}, true
		}

		var ps []paragraphs.Paragraph
		if err := json.Unmarshal(raw, &ps); err != nil || ps == nil {
			return Unknown{Type: kind}, true
		}

		return Load{Paragraphs: ps}, true
	case TypeSetPosition:
		return SetPosition{Pos: number(fields["pos"])}, true
	case TypeSetFontSize:
		return SetFontSize{Size: number(fields["size"])}, true
	case TypeScroll:
		speed := float64(SpeedUnchanged)
		if n := number(fields["speed"]); n != nil {
			speed = *n
		}

		return Scroll{Speed: speed}, true
	case TypeSetFont:
		font := DefaultFont
		if raw, ok := fields["font"]; ok {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				font = s
			}
		}

		return SetFont{Font: font}, true
	case TypeSetUppercase:
		var enabled bool
		if raw, ok := fields["enabled"]; ok {
			_ = json.Unmarshal(raw, &enabled)
		}

		return SetUppercase{Enabled: enabled}, true
	default:
		return Unknown{Type: kind}, true
	}
}

// eventType accepts any truthy "type" value. Missing, null, false, zero,
// empty strings and empty containers mean the event has no type.
func eventType(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}

	switch t := v.(type) {
	case string:
		return t, t != ""
	case nil:
		return "", false
	case bool:
		return "true", t
	case float64:
		return strings.TrimSpace(string(raw)), t != 0
	case []any:
		return string(raw), len(t) > 0
	case map[string]any:
		return string(raw), len(t) > 0
	}

	return "", false
}

// number returns nil unless raw holds a JSON number.
func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var n *float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}

	return n
}
