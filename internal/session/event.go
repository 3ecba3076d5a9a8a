package session

import (
	"errors"
	"fmt"
)

var ErrUnknownEvent = errors.New("unknown event type")

// EventType names an interaction forwarded by the presentation surface.
type EventType string

const (
	EventSubmitPassword EventType = "submit_password"
	EventKeypress       EventType = "keypress"
	EventClickTile      EventType = "click_tile"
	EventSelectOption   EventType = "select_option"
	EventCloseModal     EventType = "close_modal"
	EventAccept         EventType = "accept"
	EventDecline        EventType = "decline"
	EventResize         EventType = "resize"
)

// Event is one user interaction.
type Event struct {
	Type     EventType `json:"type"`
	Value    string    `json:"value,omitempty"`
	Key      string    `json:"key,omitempty"`
	ID       string    `json:"id,omitempty"`
	Index    int       `json:"index,omitempty"`
	Response string    `json:"response,omitempty"`
	Width    float64   `json:"width,omitempty"`
	Height   float64   `json:"height,omitempty"`
}

// Validate rejects events the session cannot interpret.
func (e Event) Validate() error {
	switch e.Type {
	case EventSubmitPassword, EventKeypress, EventSelectOption,
		EventCloseModal, EventAccept, EventDecline:
		return nil
	case EventClickTile:
		if e.ID == "" {
			return fmt.Errorf("%s: id is required", e.Type)
		}
		return nil
	case EventResize:
		if e.Width < 0 || e.Height < 0 {
			return fmt.Errorf("%s: negative dimensions", e.Type)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Type)
}
