package search

import "github.com/mcncl/unfold/internal/tree"

// State is the search navigation state.
type State int

const (
	StateIdle State = iota
	StateFound
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFound:
		return "found"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Session tracks a query, its results and the cursor over them.
type Session struct {
	query   string
	opts    Options
	results Results
	cursor  int
	state   State
	err     error
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{results: NewResults(nil)}
}

// Update runs query against t. It returns the node to navigate to when the
// query found something.
//
// If the query is a regex that does not compile, the previous results and
// cursor are kept and Err reports the problem until the next update.
func (s *Session) Update(t *tree.Tree, query string, opts Options) (int, bool) {
	matches, err := Search(t, query, opts)
	s.query, s.opts = query, opts
	if err != nil {
		s.err = err
		return 0, false
	}
	s.err = nil

	if query == "" {
		s.reset()
		return 0, false
	}

	s.results = NewResults(matches)
	if s.results.Len() == 0 {
		s.state, s.cursor = StateEmpty, 0
		return 0, false
	}
	s.state, s.cursor = StateFound, 0
	return s.results.At(0), true
}

// Rerun repeats the current query against a rebuilt tree. Results from the
// previous tree are dropped first: if the query still does not compile the
// session is idle with Err set, never pointing at indices of the old tree.
func (s *Session) Rerun(t *tree.Tree) (int, bool) {
	s.reset()
	return s.Update(t, s.query, s.opts)
}

// Clear returns the session to idle.
func (s *Session) Clear() {
	s.query, s.err = "", nil
	s.reset()
}

func (s *Session) reset() {
	s.results = NewResults(nil)
	s.cursor = 0
	s.state = StateIdle
}

// Next advances the cursor, wrapping to the first match.
func (s *Session) Next() (int, bool) {
	return s.step(1)
}

// Prev moves the cursor back, wrapping to the last match.
func (s *Session) Prev() (int, bool) {
	return s.step(-1)
}

func (s *Session) step(delta int) (int, bool) {
	if s.state != StateFound {
		return 0, false
	}
	n := s.results.Len()
	s.cursor = ((s.cursor+delta)%n + n) % n
	return s.results.At(s.cursor), true
}

// Current returns the selected match.
func (s *Session) Current() (int, bool) {
	if s.state != StateFound {
		return 0, false
	}
	return s.results.At(s.cursor), true
}

// Cursor returns the zero-based position of the current match.
func (s *Session) Cursor() int { return s.cursor }

// State returns the navigation state.
func (s *Session) State() State { return s.state }

// Query returns the last query passed to Update.
func (s *Session) Query() string { return s.query }

// Options returns the last options passed to Update.
func (s *Session) Options() Options { return s.opts }

// Results returns the current matches.
func (s *Session) Results() Results { return s.results }

// Err returns the error from the last update, if the pattern was invalid.
func (s *Session) Err() error { return s.err }
