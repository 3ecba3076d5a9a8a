package quiz

import "math"

// AnsweredSet holds the ids of correctly answered questions. It only grows.
type AnsweredSet struct {
	ids map[string]struct{}
}

func NewAnsweredSet() *AnsweredSet {
	return &AnsweredSet{ids: make(map[string]struct{})}
}

// Add reports whether id was not yet in the set.
func (s *AnsweredSet) Add(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *AnsweredSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *AnsweredSet) Len() int { return len(s.ids) }

// Progress is the love meter: a percentage in [0, 100] that grows by
// 100/total per distinct correct answer.
//
// Any value above 99 is clamped to exactly 100 so that repeated inexact
// division (3 questions: 33.33 * 3 = 99.99) still lands on the maximum.
// For large question counts this can saturate before the last answer.
type Progress struct {
	total    int
	value    float64
	complete bool
}

func NewProgress(total int) *Progress {
	return &Progress{total: total}
}

// Record adds one correct answer. It returns true only on the call that
// makes the rounded percentage reach 100 for the first time.
func (p *Progress) Record() bool {
	if p.total <= 0 || p.complete {
		return false
	}

	p.value += 100 / float64(p.total)
	if p.value > 99 {
		p.value = 100
	}

	if p.Percent() == 100 {
		p.complete = true
		return true
	}
	return false
}

// Value is the raw meter fill.
func (p *Progress) Value() float64 { return p.value }

// Percent is the displayed, rounded percentage.
func (p *Progress) Percent() int { return int(math.Round(p.value)) }

func (p *Progress) Complete() bool { return p.complete }
