// Package quiz defines the configuration document and the small state
// machines behind the love-meter quiz: the access gate, the per-tile
// question flow, the progress tracker, the dismissal counter and the
// outbound message dispatcher. Apart from Loader it does no I/O.
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument is wrapped by every validation failure of a Document.
var ErrInvalidDocument = errors.New("invalid configuration document")

// Document is the configuration read once per session.
type Document struct {
	Password       string     `json:"password"`
	PasswordHash   string     `json:"passwordHash,omitempty"`
	WhatsAppNumber string     `json:"whatsappNumber"`
	Questions      []Question `json:"questions"`
	Messages       Messages   `json:"messages"`
}

// Question is one tile of the gallery.
type Question struct {
	ID            string   `json:"id"`
	Image         string   `json:"image"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Messages is the message bank. Every key other than angryOptions and
// finalOptionMessage is an outbound response template.
type Messages struct {
	Responses          map[string]string
	AngryOptions       []string
	FinalOptionMessage string
}

const (
	keyAngryOptions       = "angryOptions"
	keyFinalOptionMessage = "finalOptionMessage"
)

func (m *Messages) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Messages{Responses: make(map[string]string, len(raw))}
	for key, value := range raw {
		switch key {
		case keyAngryOptions:
			if err := json.Unmarshal(value, &out.AngryOptions); err != nil {
				return fmt.Errorf("messages.%s: %w", key, err)
			}
		case keyFinalOptionMessage:
			if err := json.Unmarshal(value, &out.FinalOptionMessage); err != nil {
				return fmt.Errorf("messages.%s: %w", key, err)
			}
		default:
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return fmt.Errorf("messages.%s: %w", key, err)
			}
			out.Responses[key] = s
		}
	}

	*m = out
	return nil
}

func (m Messages) MarshalJSON() ([]byte, error) {
	raw := make(map[string]any, len(m.Responses)+2)
	for k, v := range m.Responses {
		raw[k] = v
	}
	angry := m.AngryOptions
	if angry == nil {
		angry = []string{}
	}
	raw[keyAngryOptions] = angry
	raw[keyFinalOptionMessage] = m.FinalOptionMessage
	return json.Marshal(raw)
}

// Validate checks the invariants the rest of the package relies on.
func (d *Document) Validate() error {
	if d.Password == "" && d.PasswordHash == "" {
		return fmt.Errorf("%w: password or passwordHash is required", ErrInvalidDocument)
	}
	if len(d.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidDocument)
	}

	seen := make(map[string]struct{}, len(d.Questions))
	for i, q := range d.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidDocument, i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidDocument, q.ID)
		}
		seen[q.ID] = struct{}{}

		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: question %q correctAnswer %d out of range [0,%d)",
				ErrInvalidDocument, q.ID, q.CorrectAnswer, len(q.Options))
		}
	}
	return nil
}

// Question returns the question with the given id.
func (d *Document) Question(id string) (Question, bool) {
	for _, q := range d.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
