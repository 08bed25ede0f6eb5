package models

import "sync"

// DefaultRodataBase is where the host maps read-only data at execution time.
// It is a fixed logical address, not derived from the object.
const DefaultRodataBase uint64 = 0x3000

// Rodata is a read-only data payload and the base address it will be loaded at.
type Rodata struct {
	Data []byte
	Base uint64
}

// RodataStore holds the most recently extracted read-only data.
//
// It is a single slot: each Store replaces the previous payload. Store and
// Take are individually atomic, but a caller that extracts and then reads
// must serialize that pair for one unit of compiled code, otherwise a
// concurrent Store can land in between.
type RodataStore struct {
	mu        sync.Mutex
	data      []byte
	base      uint64
	populated bool
}

func NewRodataStore() *RodataStore {
	return &RodataStore{}
}

// Store takes ownership of payload and releases the prior one.
func (s *RodataStore) Store(payload []byte, base uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payload == nil {
		payload = []byte{}
	}
	s.data = payload
	s.base = base
	s.populated = true
}

// Take returns a copy of the stored payload. ok is false while the store is empty.
func (s *RodataStore) Take() (r Rodata, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.populated {
		return Rodata{}, false
	}
	data := make([]byte, len(s.data))
	copy(data, s.data)
	return Rodata{Data: data, Base: s.base}, true
}

func (s *RodataStore) Populated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.populated
}
