package dictionary

import "github.com/arloliu/dwrf/dynarray"

const initialSetSlots = 1024

// descriptor identifies one string dictionary entry without holding its bytes.
type descriptor struct {
	hash   uint64
	ref    int32 // id+1; zero marks an empty slot
	length int32
}

// descriptorSet is an open-addressing hash set of descriptors whose equality is
// decided against the encoder's shared byte buffer. A probe compares the content
// hash and length first and touches the stored bytes only on a full match, so the
// candidate value never needs its own copy.
type descriptorSet struct {
	slots   []descriptor
	count   int
	bytes   *dynarray.ByteArray
	offsets *dynarray.IntArray
}

func newDescriptorSet(bytes *dynarray.ByteArray, offsets *dynarray.IntArray) descriptorSet {
	return descriptorSet{
		slots:   make([]descriptor, initialSetSlots),
		bytes:   bytes,
		offsets: offsets,
	}
}

// findOrInsert returns the id of the entry equal to value. When there is none it
// records a descriptor for nextID and returns (nextID, true); the caller must then
// append value under nextID.
func (s *descriptorSet) findOrInsert(h uint64, value []byte, nextID int) (int, bool) {
	if (s.count+1)*4 > len(s.slots)*3 {
		s.resize(len(s.slots) * 2)
	}

	mask := uint64(len(s.slots) - 1)
	length := int32(len(value)) //nolint:gosec
	for i := h & mask; ; i = (i + 1) & mask {
		d := &s.slots[i]
		if d.ref == 0 {
			*d = descriptor{hash: h, ref: int32(nextID) + 1, length: length} //nolint:gosec
			s.count++

			return nextID, true
		}
		if d.hash == h && d.length == length {
			id := int(d.ref - 1)
			if s.bytes.Equals(value, int(s.offsets.Get(id)), len(value)) {
				return id, false
			}
		}
	}
}

func (s *descriptorSet) resize(n int) {
	old := s.slots
	s.slots = make([]descriptor, n)
	mask := uint64(n - 1)
	for _, d := range old {
		if d.ref == 0 {
			continue
		}
		i := d.hash & mask
		for s.slots[i].ref != 0 {
			i = (i + 1) & mask
		}
		s.slots[i] = d
	}
}

func (s *descriptorSet) clear() {
	clear(s.slots)
	s.count = 0
}

func (s *descriptorSet) size() int {
	return s.count
}
