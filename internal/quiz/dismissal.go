package quiz

// Dismissals escalates through the angry messages each time the decline
// button is pressed, then settles on the final message.
type Dismissals struct {
	messages []string
	final    string
	count    int
}

func NewDismissals(m Messages) *Dismissals {
	return &Dismissals{messages: m.AngryOptions, final: m.FinalOptionMessage}
}

// Next returns the message to show. exhausted is true once the list has run
// out; from then on the decline button stays hidden.
func (d *Dismissals) Next() (msg string, exhausted bool) {
	if d.count < len(d.messages) {
		msg = d.messages[d.count]
		d.count++
		return msg, false
	}
	return d.final, true
}

func (d *Dismissals) Count() int { return d.count }
