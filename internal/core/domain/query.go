package domain

// SafeQuery is an outbound search string guaranteed to contain only
// allow-listed keywords, never raw document content.
//
// The zero value is unusable: a SafeQuery can only be produced by the
// query sanitizer (NewSafeQuery), so every component downstream of the
// sanitizer receives sanitised content by construction.
type SafeQuery struct {
	keywords []string
}

// NewSafeQuery wraps sanitised keywords. It is intended to be called
// only by the sanitizer; the keywords must already be case-folded and
// checked against the allow-list.
func NewSafeQuery(keywords []string) SafeQuery {
	kw := make([]string, len(keywords))
	copy(kw, keywords)
	return SafeQuery{keywords: kw}
}

// Keywords returns the sanitised keyword tokens.
func (q SafeQuery) Keywords() []string {
	kw := make([]string, len(q.keywords))
	copy(kw, q.keywords)
	return kw
}

// String renders the query as it will be transmitted.
func (q SafeQuery) String() string {
	s := ""
	for i, k := range q.keywords {
		if i > 0 {
			s += " "
		}
		s += k
	}
	return s
}

// IsEmpty reports whether the query carries no keywords.
func (q SafeQuery) IsEmpty() bool {
	return len(q.keywords) == 0
}

// GuardDecision is the outcome of the outbound-query confirmation step.
type GuardDecision string

// Guard decisions.
const (
	// GuardApproved means the query may be transmitted.
	GuardApproved GuardDecision = "approved"

	// GuardRejected means the query must never be sent. Rejection is
	// terminal for the query; cancellation and timeout also resolve here.
	GuardRejected GuardDecision = "rejected"
)
