package onefile

const (
	fileNodeListHeaderMagic uint64 = 0xA4567AB1F5F7F4C4
	fileNodeListFooterMagic uint64 = 0x8BC215C38233BA4B

	// maxListDepth bounds both the nested-list recursion the walker
	// performs on a BaseType=2 node and the number of fragments chased
	// within one logical list, per spec.md §4.4/§5.
	maxListDepth = 32
)

// node is one decoded FileNode: its header, the byte offset it started
// at, its body (everything after the embedded reference, if any), and —
// for a BaseType=2 node — the fully-walked nested FileNodeList it points
// at. Building a tree here rather than a flat event stream lets the
// object-space/revision layer (objectspace.go) consume each nesting level
// with a plain recursive-descent pass instead of tracking depth itself.
type node struct {
	hdr      fileNodeHeader
	offset   int64
	embRef   ref
	hasRef   bool
	body     []byte
	children []node
}

// walkNodeList resolves rootRef to a FileNodeList and walks it: fragment
// header/footer validation, FileNode iteration until the Chunk
// Terminator, fragment chaining across the trailing next-fragment
// pointer, and — for any BaseType=2 node — a recursive walk of the nested
// list (spec.md §4.4). It returns the concatenation of all fragments'
// nodes, Chunk Terminators excluded, as the logical node list spec.md §3
// defines.
func walkNodeList(buf []byte, rootRef ref, depth int, diag *diagnostics) ([]node, error) {
	if rootRef.IsNil() {
		return nil, nil
	}
	if depth > maxListDepth {
		return nil, newDecodeError(KindCyclicOrDeepList, int64(rootRef.stp), "FileNodeList nesting exceeds %d levels", maxListDepth)
	}

	var nodes []node
	fragRef := rootRef
	fragmentsSeen := 0

	for {
		if fragmentsSeen > maxListDepth {
			return nodes, newDecodeError(KindCyclicOrDeepList, int64(fragRef.stp), "FileNodeList fragment chain exceeds %d fragments", maxListDepth)
		}
		fragmentsSeen++

		r := newReader(buf)
		r.seek(int64(fragRef.stp))

		magic, err := r.readU64()
		if err != nil {
			return nodes, wrapDecodeError(KindTruncatedInput, int64(fragRef.stp), err, "reading FileNodeListHeader magic")
		}
		if magic != fileNodeListHeaderMagic {
			return nodes, newDecodeError(KindBadMagic, int64(fragRef.stp), "FileNodeListHeader magic mismatch: got %#x", magic)
		}
		if _, err := r.readU32(); err != nil { // FileNodeListID, not interpreted by the core
			return nodes, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading FileNodeListID")
		}
		if _, err := r.readU32(); err != nil { // FragmentSequence, not interpreted by the core
			return nodes, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading FragmentSequence")
		}

		fragmentEnd := int64(fragRef.stp) + int64(fragRef.cb)

		for {
			nodeOffset := r.tell()
			if fragRef.cb != 0 && nodeOffset >= fragmentEnd {
				return nodes, newDecodeError(KindBadMagic, nodeOffset, "fragment ended without a Chunk Terminator")
			}
			rawHdr, err := r.readU32()
			if err != nil {
				return nodes, wrapDecodeError(KindTruncatedInput, nodeOffset, err, "reading FileNode header")
			}
			fnh := decodeFileNodeHeader(rawHdr)
			if fnh.size < 4 {
				return nodes, newDecodeError(KindTruncatedInput, nodeOffset, "FileNode size %d below minimum of 4", fnh.size)
			}
			if fnh.reserved {
				diag.record(SeverityRecoverable, KindReservedBitSet, nodeOffset, "FileNode %#x reserved bit set", fnh.id)
			}

			if fnh.id == FileNodeChunkTerminatorFND {
				break
			}

			bodyEnd := nodeOffset + int64(fnh.size)

			var embRef ref
			hasRef := fnh.baseType == baseTypeRawData || fnh.baseType == baseTypeNodeList
			if hasRef {
				refStart := r.tell()
				embRef, err = r.readEmbeddedRef(fnh.stpFormat, fnh.cbFormat)
				if err != nil {
					return nodes, wrapDecodeError(KindTruncatedInput, refStart, err, "reading embedded reference")
				}
			}

			if !knownNodeIDs[fnh.id] {
				diag.record(SeverityRecoverable, KindUnknownNodeID, nodeOffset, "unknown FileNodeID %#x, skipping via Size", fnh.id)
			}

			var body []byte
			if bodyEnd > r.tell() {
				body, err = r.sliceAt(r.tell(), bodyEnd-r.tell())
				if err != nil {
					return nodes, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading FileNode body")
				}
			}

			n := node{hdr: fnh, offset: nodeOffset, embRef: embRef, hasRef: hasRef, body: body}

			if fnh.baseType == baseTypeNodeList && !embRef.IsNil() {
				children, err := walkNodeList(buf, embRef, depth+1, diag)
				if err != nil {
					if de, ok := err.(*DecodeError); ok {
						diag.recordErr(SeverityRecoverable, nodeOffset, de)
					}
				}
				n.children = children
			}

			nodes = append(nodes, n)
			r.seek(bodyEnd)
		}

		nextRef, err := r.readRef64x32()
		if err != nil {
			return nodes, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading next-fragment reference")
		}

		footerOff := r.tell()
		footer, err := r.readU64()
		if err != nil {
			return nodes, wrapDecodeError(KindTruncatedInput, footerOff, err, "reading FileNodeListFragment footer")
		}
		if footer != fileNodeListFooterMagic {
			return nodes, newDecodeError(KindBadMagic, footerOff, "FileNodeListFragment footer magic mismatch: got %#x", footer)
		}

		if nextRef.IsNil() {
			return nodes, nil
		}
		fragRef = nextRef
	}
}
