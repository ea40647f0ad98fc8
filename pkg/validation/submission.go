package validation

import (
	"net/url"
	"strings"
	"sync"
)

// Submission is the request-scoped view of one incoming form post. It must
// not outlive the request that created it.
type Submission struct {
	values url.Values
	async  bool
	token  string

	mu      sync.Mutex
	results map[string]*Result
}

// NewSubmission wraps the submitted payload. values is copied.
func NewSubmission(values url.Values, async bool, token string) *Submission {
	copied := make(url.Values, len(values))
	for key, list := range values {
		copied[key] = append([]string(nil), list...)
	}
	return &Submission{
		values: copied,
		async:  async,
		token:  token,
	}
}

// Value returns the first submitted value for name trimmed of surrounding
// whitespace, and whether the name was present at all.
func (s *Submission) Value(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	list, ok := s.values[name]
	if !ok || len(list) == 0 {
		return "", false
	}
	return strings.TrimSpace(list[0]), true
}

// Raw returns a copy of the full payload.
func (s *Submission) Raw() url.Values {
	out := make(url.Values, len(s.values))
	for key, list := range s.values {
		out[key] = append([]string(nil), list...)
	}
	return out
}

// Async reports whether the submission arrived through the client handler.
func (s *Submission) Async() bool {
	return s != nil && s.async
}

// Token returns the anti-forgery token supplied by the client.
func (s *Submission) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

func (s *Submission) cached(slug string) (*Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result, ok := s.results[slug]
	return result, ok
}

func (s *Submission) store(slug string, result *Result) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.results[slug]; ok {
		return existing
	}
	if s.results == nil {
		s.results = make(map[string]*Result)
	}
	s.results[slug] = result
	return result
}
