package dispatch

import "sync"

// Site serializes one caller's requests with latest-wins semantics: each
// Submit cancels the previous still-pending request before issuing the
// next one. An editing surface keeps one Site per document, so only the
// answer to the newest grid change ever lands.
type Site struct {
	mu     sync.Mutex
	exec   Executor
	seq    uint64
	last   *Pending
	lastID uint64
}

// NewSite wraps an executor with latest-wins submission.
func NewSite(exec Executor) *Site {
	return &Site{exec: exec}
}

// Submit cancels the previous request, assigns the next sequence ID, and
// submits. The returned Pending resolves like any other; a Pending from an
// earlier Submit reports canceled from its Wait.
func (s *Site) Submit(req Request) *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil {
		s.exec.Cancel(s.lastID)
	}
	s.seq++
	req.ID = s.seq
	p := s.exec.Submit(req)
	s.last, s.lastID = p, req.ID
	return p
}

// Cancel withdraws the current request, if any.
func (s *Site) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return false
	}
	did := s.exec.Cancel(s.lastID)
	s.last = nil
	return did
}
