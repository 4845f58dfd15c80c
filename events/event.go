package events

import "reflect"

// Event is the interface that all domain events must implement.
type Event interface {
	Name() string // Returns a unique name for the event type
}

// EventHandler is a callback invoked for every emitted event.
type EventHandler func(Event)

// ExtractGameID pulls the GameID field out of an event, if present.
func ExtractGameID(event Event) string {
	val := reflect.ValueOf(event)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	field := val.FieldByName("GameID")
	if field.IsValid() && field.Kind() == reflect.String {
		return field.String()
	}
	return ""
}
