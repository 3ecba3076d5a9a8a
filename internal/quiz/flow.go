package quiz

// TileState is the state of one tile's question flow.
type TileState int

const (
	Unanswered TileState = iota
	ModalOpen
	Answered
)

func (s TileState) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case ModalOpen:
		return "modal_open"
	case Answered:
		return "answered"
	}
	return "unknown"
}

// Selection is an option chosen in the open modal, waiting to be judged.
type Selection struct {
	QuestionID string
	Index      int
}

type Verdict int

const (
	// VerdictStale means the question was already answered when the
	// selection was judged; nothing changes.
	VerdictStale Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

// Flow drives the modal shared by all tiles. At most one question is open.
type Flow struct {
	doc      *Document
	answered *AnsweredSet
	open     string
}

func NewFlow(doc *Document, answered *AnsweredSet) *Flow {
	return &Flow{doc: doc, answered: answered}
}

func (f *Flow) State(id string) TileState {
	switch {
	case f.answered.Has(id):
		return Answered
	case f.open == id:
		return ModalOpen
	default:
		return Unanswered
	}
}

// Open shows the question for id. Answered or unknown ids leave the modal
// untouched and return false.
func (f *Flow) Open(id string) (Question, bool) {
	if f.answered.Has(id) {
		return Question{}, false
	}
	q, ok := f.doc.Question(id)
	if !ok {
		return Question{}, false
	}
	f.open = id
	return q, true
}

// Current returns the question shown in the modal, if any.
func (f *Flow) Current() (Question, bool) {
	if f.open == "" {
		return Question{}, false
	}
	return f.doc.Question(f.open)
}

// Select records a choice in the open modal. It fails when no modal is open
// or idx is not one of the options.
func (f *Flow) Select(idx int) (Selection, bool) {
	q, ok := f.Current()
	if !ok || idx < 0 || idx >= len(q.Options) {
		return Selection{}, false
	}
	return Selection{QuestionID: q.ID, Index: idx}, true
}

// Judge evaluates a selection. A correct answer marks the question answered
// and closes the modal if it still shows that question.
func (f *Flow) Judge(sel Selection) Verdict {
	if f.answered.Has(sel.QuestionID) {
		return VerdictStale
	}
	q, ok := f.doc.Question(sel.QuestionID)
	if !ok {
		return VerdictStale
	}
	if sel.Index != q.CorrectAnswer {
		return VerdictIncorrect
	}

	f.answered.Add(sel.QuestionID)
	if f.open == sel.QuestionID {
		f.open = ""
	}
	return VerdictCorrect
}

// Close hides the modal without touching answers or progress.
func (f *Flow) Close() { f.open = "" }

// IsOpen reports whether the modal currently shows id.
func (f *Flow) IsOpen(id string) bool { return id != "" && f.open == id }
