package scene

import "errors"

// ErrStaleHandle is returned for handles whose object was removed.
var ErrStaleHandle = errors.New("scene: stale or invalid object handle")

// Handle refers to an object in a Scene. The zero Handle is never valid.
// A handle goes stale when its object is removed, even if the slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

type slot struct {
	obj *Object
	gen uint32
}

// arena stores objects in index-stable slots with generation counters.
type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) insert(o *Object) Handle {
	if n := len(a.free); n > 0 {
		i := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[i].obj = o
		return Handle{index: i, gen: a.slots[i].gen}
	}
	a.slots = append(a.slots, slot{obj: o, gen: 1})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

func (a *arena) get(h Handle) (*Object, bool) {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[h.index]
	if s.gen != h.gen || s.obj == nil {
		return nil, false
	}
	return s.obj, true
}

func (a *arena) remove(h Handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	s.obj = nil
	s.gen++
	a.free = append(a.free, h.index)
	return true
}
