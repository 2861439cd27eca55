package terminal

import (
	"sync"
	"unicode/utf8"

	"github.com/kamstrup/intmap"
)

// GlyphSink receives glyphs the sync pass has not seen before.
type GlyphSink interface {
	Note(glyph string)
}

// GlyphSet is a GlyphSink that remembers the first rune of every glyph and
// queues unseen ones until Drain.
type GlyphSet struct {
	mu      sync.Mutex
	seen    *intmap.Map[rune, struct{}]
	pending []rune
}

// NewGlyphSet returns a set that already knows the space glyph.
func NewGlyphSet() *GlyphSet {
	s := &GlyphSet{seen: intmap.New[rune, struct{}](256)}
	s.seen.Put(' ', struct{}{})
	return s
}

func (s *GlyphSet) Note(glyph string) {
	r, _ := utf8.DecodeRuneInString(glyph)
	if r == utf8.RuneError {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen.Get(r); ok {
		return
	}
	s.seen.Put(r, struct{}{})
	s.pending = append(s.pending, r)
}

// Drain returns the runes noted since the previous Drain, in arrival order.
func (s *GlyphSet) Drain() []rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Len is the number of distinct runes seen.
func (s *GlyphSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen.Len()
}
