package ability

import "strconv"

// Handle identifies a granted spec. The low 32 bits hold the slot index and
// the high 32 bits the slot generation, so a handle from a revoked grant never
// aliases a later grant that reuses the slot.
type Handle uint64

type handleIndex uint32
type handleGen uint32

const handleIndexBits = 32

func makeHandle(idx handleIndex, gen handleGen) Handle {
	return Handle(uint64(gen)<<handleIndexBits | uint64(idx))
}

func (h Handle) index() handleIndex {
	return handleIndex(uint32(h))
}

func (h Handle) generation() handleGen {
	return handleGen(uint32(uint64(h) >> handleIndexBits))
}

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Valid reports whether h was produced by a grant. It does not report whether
// the grant is still live; use Registry.Find for that.
func (h Handle) Valid() bool {
	return h.index() > 0
}

// handleStore allocates handles and recycles revoked slots.
type handleStore struct {
	gen  []handleGen
	free []handleIndex
}

func (s *handleStore) create() Handle {
	var idx handleIndex
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		idx = handleIndex(len(s.gen))
	}
	return makeHandle(idx, s.gen[idx-1])
}

func (s *handleStore) destroy(h Handle) bool {
	if !s.isAlive(h) {
		return false
	}
	idx := h.index()
	s.gen[idx-1]++
	s.free = append(s.free, idx)
	return true
}

func (s *handleStore) isAlive(h Handle) bool {
	idx := h.index()
	if idx == 0 || int(idx) > len(s.gen) {
		return false
	}
	return s.gen[idx-1] == h.generation()
}
