package onefile

// ref is a decoded FileChunkReference: a (stp, cb) offset/length pair into
// the file, regardless of which of the four physical layouts produced it
// (spec.md §3, §4.2). Nil and zero encodings both collapse to IsNil()
// being true; callers never need to distinguish the two sentinels, since
// both mean "no target" (spec.md §3).
type ref struct {
	stp  uint64
	cb   uint64
	isNil bool
}

func (r ref) IsNil() bool { return r.isNil }

// stpFormat/cbFormat select the physical encoding of a FileNode-embedded
// FileChunkReference, taken from bits 23-24 and 25-26 of the FileNode
// header (spec.md §4.2). The table is exhaustive and pure dispatch, per
// the design note in spec.md §9.
type stpFormat uint8

const (
	stpU64 stpFormat = iota
	stpU32
	stpU16x8
	stpU32x8
)

type cbFormat uint8

const (
	cbU32 cbFormat = iota
	cbU64
	cbU8x8
	cbU16x8
)

// readEmbeddedRef decodes a FileNode-embedded FileChunkReference whose
// encoding is selected by the node header's StpFormat/CbFormat bits.
func (r *reader) readEmbeddedRef(sf stpFormat, cf cbFormat) (ref, error) {
	var stp, cb uint64
	var stpAllOnes, stpAllZero bool
	var cbAllOnes, cbAllZero bool

	switch sf {
	case stpU64:
		v, err := r.readU64()
		if err != nil {
			return ref{}, err
		}
		stp = v
		stpAllOnes, stpAllZero = v == 0xFFFFFFFFFFFFFFFF, v == 0
	case stpU32:
		v, err := r.readU32()
		if err != nil {
			return ref{}, err
		}
		stp = uint64(v)
		stpAllOnes, stpAllZero = v == 0xFFFFFFFF, v == 0
	case stpU16x8:
		v, err := r.readU16()
		if err != nil {
			return ref{}, err
		}
		stp = uint64(v) * 8
		stpAllOnes, stpAllZero = v == 0xFFFF, v == 0
	case stpU32x8:
		v, err := r.readU32()
		if err != nil {
			return ref{}, err
		}
		stp = uint64(v) * 8
		stpAllOnes, stpAllZero = v == 0xFFFFFFFF, v == 0
	}

	switch cf {
	case cbU32:
		v, err := r.readU32()
		if err != nil {
			return ref{}, err
		}
		cb = uint64(v)
		cbAllOnes, cbAllZero = v == 0xFFFFFFFF, v == 0
	case cbU64:
		v, err := r.readU64()
		if err != nil {
			return ref{}, err
		}
		cb = v
		cbAllOnes, cbAllZero = v == 0xFFFFFFFFFFFFFFFF, v == 0
	case cbU8x8:
		v, err := r.readU8()
		if err != nil {
			return ref{}, err
		}
		cb = uint64(v) * 8
		cbAllOnes, cbAllZero = v == 0xFF, v == 0
	case cbU16x8:
		v, err := r.readU16()
		if err != nil {
			return ref{}, err
		}
		cb = uint64(v) * 8
		cbAllOnes, cbAllZero = v == 0xFFFF, v == 0
	}

	isNil := (stpAllOnes && cbAllOnes) || (stpAllZero && cbAllZero)
	return ref{stp: stp, cb: cb, isNil: isNil}, nil
}

// readRef32 decodes a standalone FileChunkReference32 (u32 stp, u32 cb).
func (r *reader) readRef32() (ref, error) {
	stp, err := r.readU32()
	if err != nil {
		return ref{}, err
	}
	cb, err := r.readU32()
	if err != nil {
		return ref{}, err
	}
	return ref{
		stp:   uint64(stp),
		cb:    uint64(cb),
		isNil: (stp == 0xFFFFFFFF && cb == 0xFFFFFFFF) || (stp == 0 && cb == 0),
	}, nil
}

// readRef64 decodes a standalone FileChunkReference64 (u64 stp, u64 cb).
func (r *reader) readRef64() (ref, error) {
	stp, err := r.readU64()
	if err != nil {
		return ref{}, err
	}
	cb, err := r.readU64()
	if err != nil {
		return ref{}, err
	}
	return ref{
		stp:   stp,
		cb:    cb,
		isNil: (stp == 0xFFFFFFFFFFFFFFFF && cb == 0xFFFFFFFFFFFFFFFF) || (stp == 0 && cb == 0),
	}, nil
}

// readRef64x32 decodes a standalone FileChunkReference64x32 (u64 stp,
// u32 cb) — the layout used by the header's two critical references and
// by FileNodeList fragment-chaining pointers.
func (r *reader) readRef64x32() (ref, error) {
	stp, err := r.readU64()
	if err != nil {
		return ref{}, err
	}
	cb, err := r.readU32()
	if err != nil {
		return ref{}, err
	}
	return ref{
		stp:   stp,
		cb:    uint64(cb),
		isNil: (stp == 0xFFFFFFFFFFFFFFFF && cb == 0xFFFFFFFF) || (stp == 0 && cb == 0),
	}, nil
}
