package onefile

import "encoding/binary"

// reader is a bounds-checked, random-access cursor over a whole OneNote
// file buffer. Every higher layer routes its byte access through here so
// truncation and out-of-range seeks are caught in one place rather than
// scattered across each typed decoder; the format's offset graph runs both
// forward and backward, so unlike a streaming reader this one supports
// absolute seeks (spec.md §4.1, §5).
type reader struct {
	buf []byte
	pos int64
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// tell returns the current absolute offset.
func (r *reader) tell() int64 { return r.pos }

// remaining returns the number of bytes left between the cursor and the
// end of the buffer.
func (r *reader) remaining() int64 { return int64(len(r.buf)) - r.pos }

// seek moves the cursor to an absolute offset. It does not itself fail on
// an out-of-range offset; the next read will report KindTruncatedInput,
// which carries the more useful offset (the failed read, not the seek).
func (r *reader) seek(offset int64) {
	r.pos = offset
}

func (r *reader) need(n int64) error {
	if n < 0 || r.pos < 0 || r.pos+n > int64(len(r.buf)) {
		return newDecodeError(KindTruncatedInput, r.pos, "need %d bytes, have %d", n, r.remaining())
	}
	return nil
}

// readBytes returns a zero-copy slice of the next n bytes and advances the
// cursor. The returned slice aliases the underlying file buffer per the
// ownership model in spec.md §3 ("decoded entities hold byte ranges ...
// not copies").
func (r *reader) readBytes(n int64) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// sliceAt returns a zero-copy slice of n bytes at an absolute offset
// without disturbing the cursor.
func (r *reader) sliceAt(offset, n int64) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > int64(len(r.buf)) {
		return nil, newDecodeError(KindBadReference, offset, "range [%d, %d) outside buffer of length %d", offset, offset+n, len(r.buf))
	}
	return r.buf[offset : offset+n], nil
}

func (r *reader) readU8() (uint8, error) {
	b, err := r.readBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readU16() (uint16, error) {
	b, err := r.readBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) readU32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readU64() (uint64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// readGUID reads a 16-byte GUID in its on-disk, little-endian field order.
func (r *reader) readGUID() (GUID, error) {
	b, err := r.readBytes(16)
	if err != nil {
		return GUID{}, err
	}
	var g GUID
	copy(g[:], b)
	return g, nil
}
