package element

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Event is delivered to listeners registered through "on*" props.
type Event struct {
	// Type is the lower-cased event name, e.g. "click".
	Type string
	// Target is the platform node the event was dispatched on.
	Target any
	// Data carries event-specific payload.
	Data any
}

// Handler receives events. Props whose key is listener-shaped (see
// IsListenerKey) must hold a Handler.
type Handler func(Event)

// IsListenerKey reports whether a prop key names an event listener: the
// prefix "on" followed by an upper-case letter, as in "onClick".
func IsListenerKey(key string) bool {
	if !strings.HasPrefix(key, "on") || len(key) < 3 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(key[2:])
	return unicode.IsUpper(r)
}

// EventType returns the event name for a listener key: "onClick" -> "click".
func EventType(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, "on"))
}

// AsHandler converts a prop value to a Handler. It accepts both Handler and
// plain func(Event) values.
func AsHandler(v any) (Handler, bool) {
	switch h := v.(type) {
	case Handler:
		return h, h != nil
	case func(Event):
		return h, h != nil
	default:
		return nil, false
	}
}
