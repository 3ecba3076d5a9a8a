package quiz

import "golang.org/x/crypto/bcrypt"

type GateResult int

const (
	GateRejected GateResult = iota
	GateOpened
	GateAlreadyOpen
)

// Gate guards the main content with a single shared secret. Once opened it
// stays open for the session.
type Gate struct {
	password string
	hash     []byte
	unlocked bool
}

// NewGate prefers the bcrypt hash when the document carries one; otherwise
// candidates are compared to the plain password by exact equality.
func NewGate(doc *Document) *Gate {
	g := &Gate{password: doc.Password}
	if doc.PasswordHash != "" {
		g.hash = []byte(doc.PasswordHash)
	}
	return g
}

func (g *Gate) Unlocked() bool { return g.unlocked }

func (g *Gate) Submit(candidate string) GateResult {
	if g.unlocked {
		return GateAlreadyOpen
	}
	if !g.matches(candidate) {
		return GateRejected
	}
	g.unlocked = true
	return GateOpened
}

func (g *Gate) matches(candidate string) bool {
	if g.hash != nil {
		return bcrypt.CompareHashAndPassword(g.hash, []byte(candidate)) == nil
	}
	return candidate == g.password
}
