package onefile

import (
	"strconv"

	"github.com/google/uuid"
)

// GUID is a 16-byte globally unique identifier stored in the on-disk
// little-endian field order used throughout MS binary formats (spec.md
// §3). It is deliberately not github.com/google/uuid.UUID itself: that
// type's byte layout follows RFC 4122's big-endian field order, and
// treating on-disk bytes as a uuid.UUID directly without reordering them
// would silently transpose the first three fields in any printed form.
type GUID [16]byte

// A nil GUID and a zero GUID read identically (all-zero); OneNote only ever
// uses the nil/absent convention at the reference level (see
// reference.go), not at the GUID level, so GUID has no separate
// "nil" sentinel of its own.
var zeroGUID GUID

// IsZero reports whether every byte of the GUID is zero.
func (g GUID) IsZero() bool { return g == zeroGUID }

// UUID renders the GUID as a github.com/google/uuid.UUID in canonical RFC
// 4122 byte order, swapping the mixed-endian on-disk field order
// (data1 uint32 LE, data2/data3 uint16 LE, data4 8 bytes verbatim) into
// network byte order first. Used only for display (diagnostics, JSON
// report); decoding and comparison work on the raw on-disk bytes.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = g[3], g[2], g[1], g[0]
	u[4], u[5] = g[5], g[4]
	u[6], u[7] = g[7], g[6]
	copy(u[8:], g[8:16])
	return u
}

func (g GUID) String() string { return g.UUID().String() }

// Equal reports whether two GUIDs match byte-for-byte.
func (g GUID) Equal(other GUID) bool { return g == other }

// guidFromBytes builds a GUID from its canonical on-disk byte sequence,
// given as the literal bytes in file order (the form file-type and
// FileDataStoreObject GUIDs are specified in, spec.md §6).
func guidFromBytes(b []byte) GUID {
	var g GUID
	copy(g[:], b)
	return g
}

// ExtendedGUID pairs a GUID with a 32-bit sequence number. Two
// ExtendedGUIDs are equal iff both members match (spec.md §3); there is no
// other notion of identity.
type ExtendedGUID struct {
	GUID GUID
	N    uint32
}

// IsNil reports whether this is the nil ExtendedGUID: an all-zero GUID
// with N == 0.
func (e ExtendedGUID) IsNil() bool { return e.GUID.IsZero() && e.N == 0 }

func (e ExtendedGUID) Equal(other ExtendedGUID) bool {
	return e.GUID.Equal(other.GUID) && e.N == other.N
}

func (e ExtendedGUID) String() string {
	return e.GUID.String() + "-" + strconv.FormatUint(uint64(e.N), 10)
}

// CompactID is a 32-bit compressed identifier: n in the low 8 bits,
// guidIndex in the high 24 bits (spec.md §3). It is resolved to an
// ExtendedGUID through a Global Identification Table (globaltable.go).
type CompactID uint32

// N is the low 8-bit sequence number carried directly in the CompactID;
// it replaces the table entry's own n when the CompactID is resolved.
func (c CompactID) N() uint32 { return uint32(c) & 0xFF }

// GuidIndex is the high 24-bit index into the current Global
// Identification Table.
func (c CompactID) GuidIndex() uint32 { return uint32(c) >> 8 }
