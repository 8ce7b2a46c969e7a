package onefile

// propertyTag is the 5-bit physical-encoding selector carried in the high
// bits of a PropertyID (spec.md §4.6). The implementer MUST support all of
// these; the decoder below switches on every one exhaustively rather than
// leaving a default case that silently drops data.
type propertyTag uint8

const (
	tagNoData propertyTag = iota
	tagBool
	tagU8
	tagU16
	tagU32
	tagU64
	tagF32
	tagF64
	tagFourBytesLengthData
	tagObjectID
	tagObjectIDArray
	tagObjectSpaceID
	tagObjectSpaceIDArray
	tagContextID
	tagContextIDArray
	tagPropertySet
	tagArrayOfPropertyValues
)

// PropertyID names a property (low 26 bits) and selects its physical
// encoding (high 5 bits) plus, for tagBool, carries the boolean value
// itself in the top bit (spec.md §4.6's "Bool (in-id)" encoding).
type PropertyID uint32

func (p PropertyID) name() uint32     { return uint32(p) & 0x03FFFFFF }
func (p PropertyID) tag() propertyTag { return propertyTag((uint32(p) >> 26) & 0x1F) }
func (p PropertyID) boolValue() bool  { return uint32(p)&0x80000000 != 0 }

// Well-known property names this implementation recognizes. spec.md §9
// Open Question 2 notes a full MS-ONE enumeration is empirical and left to
// the implementer; these are the ones the spec's own §8 scenarios and
// §1's hyperlink-following requirement exercise.
const (
	PropertyNameDisplayName     uint32 = 0x01 // section/page display name, UTF-16 text
	PropertyNameRichEditText    uint32 = 0x02 // rich-text node body, UTF-16 text
	PropertyNameHyperlinkURL    uint32 = 0x03 // link target, UTF-16 text
	PropertyNameFilename        uint32 = 0x04 // suggested filename for a referenced file object, UTF-16 text
	PropertyNameFileDataRef     uint32 = 0x05 // ObjectID pointing at a file-bearing object declaration
	PropertyNameElementChildren uint32 = 0x06 // ObjectIDArray of child entities (page->outline->richtext nesting)
)

// PropertyValue is a decoded property, tagged by its physical encoding.
// Exactly one of the typed fields is meaningful, selected by Tag.
type PropertyValue struct {
	Name uint32
	Tag  propertyTag

	Bool     bool
	UInt     uint64
	Float    float64
	Bytes    []byte
	ObjectIDs []ExtendedGUID
	Nested    *PropertySet
	Array     []*PropertySet
}

// Text decodes Bytes as little-endian UTF-16 with a single trailing null
// stripped, per spec.md §4.6/§9 ("UTF-16 everywhere"). It is meaningful
// only for tagFourBytesLengthData values that in fact hold text; callers
// that know a property is textual call this directly.
func (v PropertyValue) Text() string {
	return decodeUTF16LE(v.Bytes)
}

// PropertySet is a decoded, tagged bag of named properties (spec.md §3,
// §4.6).
type PropertySet struct {
	Values []PropertyValue
}

func (ps *PropertySet) find(name uint32) (PropertyValue, bool) {
	for _, v := range ps.Values {
		if v.Name == name {
			return v, true
		}
	}
	return PropertyValue{}, false
}

// idStream is one of the three positional CompactID streams (OIDs, OSIDs,
// ContextIDs) of an ObjectSpaceObjectPropSet. It exposes only take_one/
// take_n per the design note in spec.md §9: the positional contract is the
// invariant, so no random access is exposed.
type idStream struct {
	ids    []CompactID
	cursor int
}

func (s *idStream) takeOne() (CompactID, error) {
	if s.cursor >= len(s.ids) {
		return 0, newDecodeError(KindPropertyStreamExhausted, 0, "stream exhausted: requested 1 more of %d", len(s.ids))
	}
	v := s.ids[s.cursor]
	s.cursor++
	return v, nil
}

func (s *idStream) takeN(n uint32) ([]CompactID, error) {
	if s.cursor+int(n) > len(s.ids) {
		return nil, newDecodeError(KindPropertyStreamExhausted, 0, "stream exhausted: requested %d more of %d (cursor %d)", n, len(s.ids), s.cursor)
	}
	v := s.ids[s.cursor : s.cursor+int(n)]
	s.cursor += int(n)
	return v, nil
}

// exhausted reports whether every entry of the stream was consumed, per
// spec.md §8's invariant ("after decoding any PropertySet, the three
// stream cursors equal the stream counts").
func (s *idStream) exhausted() bool { return s.cursor == len(s.ids) }

const maxPropertySetDepth = 16

// decodePropertySet decodes an ObjectSpaceObjectPropSet: the OIDs/OSIDs/
// ContextIDs streams followed by the PropertySet body (spec.md §4.6),
// resolving ObjectID-family properties against the Global Identification
// Table of the current revision.
func decodePropertySet(body []byte, gid *globalIDTable, depth int) (*PropertySet, error) {
	r := newReader(body)

	oids, err := readIDStream(r)
	if err != nil {
		return nil, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading OIDs stream")
	}

	var osids, ctxids idStream
	if !oids.header.osidStreamNotPresent {
		s, err := readIDStream(r)
		if err != nil {
			return nil, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading OSIDs stream")
		}
		osids = s.stream
	}
	if oids.header.extendedStreamsPresent {
		s, err := readIDStream(r)
		if err != nil {
			return nil, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading ContextIDs stream")
		}
		ctxids = s.stream
	}

	streams := &propStreams{oids: oids.stream, osids: osids, ctxids: ctxids, gid: gid}
	ps, err := decodePropertySetBody(r, streams, depth)
	if err != nil {
		return nil, err
	}

	if !streams.oids.exhausted() || !streams.osids.exhausted() || !streams.ctxids.exhausted() {
		return nil, newDecodeError(KindPropertyStreamExhausted, r.tell(), "stream cursors did not reach stream counts at end of decode")
	}
	return ps, nil
}

type propStreams struct {
	oids, osids, ctxids idStream
	gid                 *globalIDTable
}

type idStreamResult struct {
	header idStreamHeader
	stream idStream
}

type idStreamHeader struct {
	count                   uint32
	osidStreamNotPresent    bool
	extendedStreamsPresent  bool
}

func readIDStream(r *reader) (idStreamResult, error) {
	raw, err := r.readU32()
	if err != nil {
		return idStreamResult{}, err
	}
	hdr := idStreamHeader{
		count:                  raw & 0x00FFFFFF,
		osidStreamNotPresent:   raw&(1<<24) != 0,
		extendedStreamsPresent: raw&(1<<25) != 0,
	}
	ids := make([]CompactID, hdr.count)
	for i := range ids {
		v, err := r.readU32()
		if err != nil {
			return idStreamResult{}, err
		}
		ids[i] = CompactID(v)
	}
	return idStreamResult{header: hdr, stream: idStream{ids: ids}}, nil
}

func decodePropertySetBody(r *reader, streams *propStreams, depth int) (*PropertySet, error) {
	if depth > maxPropertySetDepth {
		return nil, newDecodeError(KindDepthExceeded, r.tell(), "PropertySet nesting exceeds %d levels", maxPropertySetDepth)
	}

	count, err := r.readU16()
	if err != nil {
		return nil, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading PropertySet count")
	}
	ids := make([]PropertyID, count)
	for i := range ids {
		v, err := r.readU32()
		if err != nil {
			return nil, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading PropertyID")
		}
		ids[i] = PropertyID(v)
	}

	ps := &PropertySet{Values: make([]PropertyValue, 0, len(ids))}
	for _, id := range ids {
		v, err := decodePropertyValue(r, id, streams, depth)
		if err != nil {
			return nil, err
		}
		ps.Values = append(ps.Values, v)
	}
	return ps, nil
}

func decodePropertyValue(r *reader, id PropertyID, streams *propStreams, depth int) (PropertyValue, error) {
	v := PropertyValue{Name: id.name(), Tag: id.tag()}

	switch id.tag() {
	case tagNoData:
		// zero bytes on the wire.
	case tagBool:
		v.Bool = id.boolValue()
	case tagU8:
		x, err := r.readU8()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading u8 property")
		}
		v.UInt = uint64(x)
	case tagU16:
		x, err := r.readU16()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading u16 property")
		}
		v.UInt = uint64(x)
	case tagU32:
		x, err := r.readU32()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading u32 property")
		}
		v.UInt = uint64(x)
	case tagU64:
		x, err := r.readU64()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading u64 property")
		}
		v.UInt = x
	case tagF32:
		x, err := r.readU32()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading f32 property")
		}
		v.Float = float64(float32FromBits(x))
	case tagF64:
		x, err := r.readU64()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading f64 property")
		}
		v.Float = float64FromBits(x)
	case tagFourBytesLengthData:
		n, err := r.readU32()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading property data length")
		}
		b, err := r.readBytes(int64(n))
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading property data")
		}
		v.Bytes = b
	case tagObjectID:
		cid, err := streams.oids.takeOne()
		if err != nil {
			return v, err
		}
		eg, err := streams.gid.resolve(cid)
		if err != nil {
			return v, err
		}
		v.ObjectIDs = []ExtendedGUID{eg}
	case tagObjectIDArray:
		n, err := r.readU32()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading ObjectIDArray count")
		}
		cids, err := streams.oids.takeN(n)
		if err != nil {
			return v, err
		}
		v.ObjectIDs, err = resolveAll(streams.gid, cids)
		if err != nil {
			return v, err
		}
	case tagObjectSpaceID:
		cid, err := streams.osids.takeOne()
		if err != nil {
			return v, err
		}
		eg, err := streams.gid.resolve(cid)
		if err != nil {
			return v, err
		}
		v.ObjectIDs = []ExtendedGUID{eg}
	case tagObjectSpaceIDArray:
		n, err := r.readU32()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading ObjectSpaceIDArray count")
		}
		cids, err := streams.osids.takeN(n)
		if err != nil {
			return v, err
		}
		v.ObjectIDs, err = resolveAll(streams.gid, cids)
		if err != nil {
			return v, err
		}
	case tagContextID:
		cid, err := streams.ctxids.takeOne()
		if err != nil {
			return v, err
		}
		eg, err := streams.gid.resolve(cid)
		if err != nil {
			return v, err
		}
		v.ObjectIDs = []ExtendedGUID{eg}
	case tagContextIDArray:
		n, err := r.readU32()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading ContextIDArray count")
		}
		cids, err := streams.ctxids.takeN(n)
		if err != nil {
			return v, err
		}
		v.ObjectIDs, err = resolveAll(streams.gid, cids)
		if err != nil {
			return v, err
		}
	case tagPropertySet:
		nested, err := decodePropertySetBody(r, streams, depth+1)
		if err != nil {
			return v, err
		}
		v.Nested = nested
	case tagArrayOfPropertyValues:
		n, err := r.readU32()
		if err != nil {
			return v, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading ArrayOfPropertyValues count")
		}
		// Every nested PropertySet body needs at least 2 bytes (its own
		// count field), so a count that can't possibly fit in what's left
		// of the buffer is malformed input, not a real array. Reject it
		// before allocating instead of trusting an attacker-controlled
		// size, the same way idStream.takeN checks against len(s.ids)
		// before slicing rather than allocating n directly.
		if int64(n) > r.remaining()/2 {
			return v, newDecodeError(KindTruncatedInput, r.tell(), "ArrayOfPropertyValues count %d exceeds remaining buffer", n)
		}
		arr := make([]*PropertySet, 0, n)
		for i := uint32(0); i < n; i++ {
			nested, err := decodePropertySetBody(r, streams, depth+1)
			if err != nil {
				return v, err
			}
			arr = append(arr, nested)
		}
		v.Array = arr
	default:
		return v, newDecodeError(KindTruncatedInput, r.tell(), "unrecognized property tag %d", id.tag())
	}
	return v, nil
}

func resolveAll(gid *globalIDTable, cids []CompactID) ([]ExtendedGUID, error) {
	out := make([]ExtendedGUID, len(cids))
	for i, c := range cids {
		eg, err := gid.resolve(c)
		if err != nil {
			return nil, err
		}
		out[i] = eg
	}
	return out, nil
}
