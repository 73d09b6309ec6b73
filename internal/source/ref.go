package source

import (
	"log/slog"
	"sync/atomic"
)

// sharedDesc is the cell shared by every holder of one descriptor. Once refs
// drops to zero the cell is dead and can never be upgraded again.
type sharedDesc struct {
	desc *SourceDesc
	gen  uint64
	refs atomic.Int64
}

func newSourceDescRef(desc *SourceDesc, gen uint64) *SourceDescRef {
	s := &sharedDesc{desc: desc, gen: gen}
	s.refs.Store(1)
	return &SourceDescRef{shared: s}
}

func (s *sharedDesc) alive() bool {
	return s.refs.Load() > 0
}

// upgrade returns a new holder, or false if the cell is already dead.
func (s *sharedDesc) upgrade() (*SourceDescRef, bool) {
	for {
		n := s.refs.Load()
		if n <= 0 {
			return nil, false
		}
		if s.refs.CompareAndSwap(n, n+1) {
			return &SourceDescRef{shared: s}, true
		}
	}
}

func (s *sharedDesc) release() {
	if s.refs.Add(-1) != 0 {
		return
	}
	if err := s.desc.Source.Close(); err != nil {
		slog.Warn("failed to close source", "generation", s.gen, "error", err)
	}
}

// SourceDescRef is a strong handle on a shared descriptor. Each handle must be
// released exactly once; further calls to Release are ignored. The descriptor
// must not be used after its handle is released.
type SourceDescRef struct {
	shared   *sharedDesc
	released atomic.Bool
}

func (r *SourceDescRef) Desc() *SourceDesc {
	return r.shared.desc
}

// Generation identifies the registry slot the descriptor was cached under.
// It is zero for stream descriptors, which are never cached.
func (r *SourceDescRef) Generation() uint64 {
	return r.shared.gen
}

// Clone returns a new handle on the same descriptor, or nil if r was released.
func (r *SourceDescRef) Clone() *SourceDescRef {
	if r.released.Load() {
		return nil
	}
	ref, ok := r.shared.upgrade()
	if !ok {
		return nil
	}
	return ref
}

func (r *SourceDescRef) Release() {
	if r.released.CompareAndSwap(false, true) {
		r.shared.release()
	}
}
