package onefile

// globalIDTable is the Global Identification Table for one revision: a
// contiguous vector indexed by guidIndex rather than a hash map, per the
// design note in spec.md §9 — CompactID resolution is a pure indexed
// lookup, not a pointer chase, so there is nothing a map would buy beyond
// overhead. Built from GlobalIdTableEntryFNDX nodes between
// GlobalIdTableStart and GlobalIdTableEnd (spec.md §4.5); the table is
// owned by the object space currently being decoded (spec.md §3
// Ownership).
type globalIDTable struct {
	entries []ExtendedGUID
}

// maxGlobalIDTableIndex caps the highest index set accepts. A GUID index
// is a guidIndex into a per-revision table, not a file offset, so there is
// no legitimate file this large; without the cap a single crafted
// GlobalIdTableEntryFNDX with index near 0xFFFFFFFF drives the grow loop
// below into an append of billions of 20-byte entries.
const maxGlobalIDTableIndex = 1 << 20

// set records entry index -> guid, growing the backing vector as needed.
// Indices are expected dense from 0 upward within a revision (spec.md
// §4.5); a sparse or out-of-order insert still works (the vector grows to
// fit, gaps hold zero ExtendedGUIDs). Density is not checked here, and the
// caller records no diagnostic for it either.
func (t *globalIDTable) set(index uint32, guid ExtendedGUID) error {
	if index > maxGlobalIDTableIndex {
		return newDecodeError(KindBadReference, 0, "GlobalIdTableEntry index %d exceeds sanity ceiling %d", index, maxGlobalIDTableIndex)
	}
	for uint32(len(t.entries)) <= index {
		t.entries = append(t.entries, ExtendedGUID{})
	}
	t.entries[index] = guid
	return nil
}

func (t *globalIDTable) len() int { return len(t.entries) }

// resolve turns a CompactID into an ExtendedGUID: the table entry at
// guidIndex supplies the GUID, the CompactID itself supplies N (spec.md
// §3 — "the resulting ExtendedGUID's n is the CompactID's n, not the
// table entry's n").
func (t *globalIDTable) resolve(c CompactID) (ExtendedGUID, error) {
	idx := c.GuidIndex()
	if idx >= uint32(len(t.entries)) {
		return ExtendedGUID{}, newDecodeError(KindBadReference, 0, "CompactID guidIndex %d outside table of %d entries", idx, len(t.entries))
	}
	g := t.entries[idx]
	return ExtendedGUID{GUID: g.GUID, N: c.N()}, nil
}
