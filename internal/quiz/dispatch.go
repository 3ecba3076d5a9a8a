package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMessagingBaseURL is the WhatsApp click-to-chat endpoint.
const DefaultMessagingBaseURL = "https://wa.me"

var ErrUnknownResponse = errors.New("unknown response type")

// Dispatcher builds the outbound deep-link for an accept button.
type Dispatcher struct {
	base      string
	number    string
	responses map[string]string
}

func NewDispatcher(baseURL string, doc *Document) *Dispatcher {
	if baseURL == "" {
		baseURL = DefaultMessagingBaseURL
	}
	return &Dispatcher{
		base:      strings.TrimRight(baseURL, "/"),
		number:    doc.WhatsAppNumber,
		responses: doc.Messages.Responses,
	}
}

// Link returns <base>/<number>?text=<message>. A response type with no
// template is an error rather than a link carrying "undefined".
func (d *Dispatcher) Link(responseType string) (string, error) {
	msg, ok := d.responses[responseType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownResponse, responseType)
	}
	return d.base + "/" + d.number + "?text=" + EncodeURIComponent(msg), nil
}

// EncodeURIComponent escapes s the way browsers' encodeURIComponent does:
// every UTF-8 byte except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func uriUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
