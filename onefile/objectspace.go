package onefile

// objectDecl is one recorded object declaration: its identity, its JCID
// (which selects how its body is interpreted), and the FileChunkReference
// to that body (spec.md §4.5).
type objectDecl struct {
	oid     ExtendedGUID
	jcid    JCID
	bodyRef ref
}

// revisionBuild accumulates one revision's Global Identification Table
// and object declarations while the node tree is walked (spec.md §4.5,
// §5's ordering requirement: table entries strictly precede any
// CompactID that references them).
type revisionBuild struct {
	gid   globalIDTable
	decls map[ExtendedGUID]*objectDecl
	order []ExtendedGUID
}

func isRevisionManifestStart(id FileNodeID) bool {
	switch id {
	case FileNodeRevisionManifestStart4FND, FileNodeRevisionManifestStart6FND, FileNodeRevisionManifestStart7FND:
		return true
	default:
		return false
	}
}

func isGlobalIDTableEntry(id FileNodeID) bool {
	switch id {
	case FileNodeGlobalIdTableEntryFNDX, FileNodeGlobalIdTableEntry2FNDX, FileNodeGlobalIdTableEntry3FNDX:
		return true
	default:
		return false
	}
}

func isObjectDeclaration(id FileNodeID) bool {
	switch id {
	case FileNodeObjectDeclarationWithRefCountFNDX, FileNodeObjectDeclarationWithRefCount2FNDX,
		FileNodeObjectDeclaration2RefCountFND, FileNodeObjectDeclaration2LargeRefCountFND:
		return true
	default:
		return false
	}
}

// decodeGlobalIDTableEntryBody decodes a GlobalIdTableEntryFNDX body:
// a u32 index followed by an ExtendedGUID (GUID + u32 n).
func decodeGlobalIDTableEntryBody(body []byte) (uint32, ExtendedGUID, error) {
	r := newReader(body)
	index, err := r.readU32()
	if err != nil {
		return 0, ExtendedGUID{}, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading GlobalIdTableEntry index")
	}
	g, err := r.readGUID()
	if err != nil {
		return 0, ExtendedGUID{}, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading GlobalIdTableEntry GUID")
	}
	n, err := r.readU32()
	if err != nil {
		return 0, ExtendedGUID{}, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading GlobalIdTableEntry n")
	}
	return index, ExtendedGUID{GUID: g, N: n}, nil
}

// decodeObjectDeclarationBody decodes the fixed prefix of an object
// declaration body: a CompactID oid followed by a JCID. Any trailing
// bytes (reference-count fields) are not interpreted by the core.
func decodeObjectDeclarationBody(body []byte) (CompactID, JCID, error) {
	r := newReader(body)
	oid, err := r.readU32()
	if err != nil {
		return 0, 0, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading object declaration oid")
	}
	jcid, err := r.readU32()
	if err != nil {
		return 0, 0, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading object declaration jcid")
	}
	return CompactID(oid), JCID(jcid), nil
}

// decodeExtendedGUIDBody decodes a bare ExtendedGUID body, used for the
// gosid carried by ObjectSpaceManifestListStartFND.
func decodeExtendedGUIDBody(body []byte) (ExtendedGUID, error) {
	r := newReader(body)
	g, err := r.readGUID()
	if err != nil {
		return ExtendedGUID{}, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading ExtendedGUID GUID")
	}
	n, err := r.readU32()
	if err != nil {
		return ExtendedGUID{}, wrapDecodeError(KindTruncatedInput, r.tell(), err, "reading ExtendedGUID n")
	}
	return ExtendedGUID{GUID: g, N: n}, nil
}

// processRevisionList walks one RevisionManifestListReferenceFND's
// already-walked children, tracking revision boundaries and retaining
// only the most recently completed revision (spec.md §9 Open Question 1:
// older revisions are ignored silently).
func processRevisionList(nodes []node, buf []byte, diag *diagnostics) *revisionBuild {
	var cur, last *revisionBuild

	for _, n := range nodes {
		switch {
		case isRevisionManifestStart(n.hdr.id):
			cur = &revisionBuild{decls: make(map[ExtendedGUID]*objectDecl)}

		case n.hdr.id == FileNodeGlobalIdTableStartFNDX || n.hdr.id == FileNodeGlobalIdTableStart2FND:
			if cur != nil {
				cur.gid = globalIDTable{}
			}

		case isGlobalIDTableEntry(n.hdr.id):
			if cur == nil {
				diag.record(SeverityRecoverable, KindBadReference, n.offset, "GlobalIdTableEntry outside a revision")
				continue
			}
			index, eg, err := decodeGlobalIDTableEntryBody(n.body)
			if err != nil {
				diag.recordErr(SeverityRecoverable, n.offset, err.(*DecodeError))
				continue
			}
			if err := cur.gid.set(index, eg); err != nil {
				diag.recordErr(SeverityRecoverable, n.offset, err.(*DecodeError))
				continue
			}

		case n.hdr.id == FileNodeGlobalIdTableEndFNDX:
			// nothing to finalize: the table is consulted lazily by resolve().

		case isObjectDeclaration(n.hdr.id):
			if cur == nil {
				diag.record(SeverityRecoverable, KindBadReference, n.offset, "object declaration outside a revision")
				continue
			}
			oidCompact, jcid, err := decodeObjectDeclarationBody(n.body)
			if err != nil {
				diag.recordErr(SeverityRecoverable, n.offset, err.(*DecodeError))
				continue
			}
			eg, err := cur.gid.resolve(oidCompact)
			if err != nil {
				diag.recordErr(SeverityRecoverable, n.offset, err.(*DecodeError))
				continue
			}
			decl := &objectDecl{oid: eg, jcid: jcid, bodyRef: n.embRef}
			if _, dup := cur.decls[eg]; !dup {
				cur.order = append(cur.order, eg)
			}
			cur.decls[eg] = decl

		case n.hdr.id == FileNodeRevisionManifestEndFND:
			if cur != nil {
				last = cur
				cur = nil
			}
		}
	}
	// A revision with no explicit End marker (truncated input, or a
	// single-revision file that never closes it) is still usable: take
	// whatever was accumulated rather than discarding it.
	if last == nil {
		last = cur
	}
	return last
}

// processObjectSpace assembles one object space from its already-walked
// node tree: identity, current-revision object declarations, the entity
// tree built from them, and any files extracted from that revision.
func processObjectSpace(nodes []node, buf []byte, diag *diagnostics) (*ObjectSpace, []*ExtractedFile) {
	var gosid ExtendedGUID
	var revisions []*revisionBuild

	for _, n := range nodes {
		switch n.hdr.id {
		case FileNodeObjectSpaceManifestListStartFND:
			if eg, err := decodeExtendedGUIDBody(n.body); err == nil {
				gosid = eg
			} else {
				diag.recordErr(SeverityRecoverable, n.offset, err.(*DecodeError))
			}
		case FileNodeRevisionManifestListReferenceFND:
			if rb := processRevisionList(n.children, buf, diag); rb != nil {
				revisions = append(revisions, rb)
			}
		}
	}

	if len(revisions) == 0 {
		return &ObjectSpace{GOSID: gosid}, nil
	}
	current := revisions[len(revisions)-1]

	propSets := make(map[ExtendedGUID]*PropertySet, len(current.order))
	for _, oid := range current.order {
		decl := current.decls[oid]
		if decl.jcid.isFileBearing() {
			continue
		}
		if decl.bodyRef.IsNil() {
			continue
		}
		raw, err := sliceRef(buf, decl.bodyRef)
		if err != nil {
			diag.recordErr(SeverityRecoverable, decl.bodyRef.stpAsOffset(), err.(*DecodeError))
			continue
		}
		ps, err := decodePropertySet(raw, &current.gid, 0)
		if err != nil {
			if de, ok := err.(*DecodeError); ok {
				diag.recordErr(SeverityRecoverable, decl.bodyRef.stpAsOffset(), de)
			}
			continue
		}
		propSets[oid] = ps
	}

	root := buildEntityTree(current, propSets, diag)
	files := extractFiles(current, propSets, buf, diag)
	return &ObjectSpace{GOSID: gosid, Root: root}, files
}

// buildEntityTree builds the Entity tree for one revision. The first
// declared PropertySet-bearing object is taken as the root (declaration
// order places the owning section/page first in every example this
// decoder was grounded on); children are discovered through
// PropertyNameElementChildren ObjectIDArray properties.
func buildEntityTree(rb *revisionBuild, propSets map[ExtendedGUID]*PropertySet, diag *diagnostics) *Entity {
	var rootOID ExtendedGUID
	found := false
	for _, oid := range rb.order {
		if _, ok := propSets[oid]; ok {
			rootOID = oid
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	visited := make(map[ExtendedGUID]bool)
	return newEntityNode(rootOID, rb, propSets, visited, diag)
}

func newEntityNode(oid ExtendedGUID, rb *revisionBuild, propSets map[ExtendedGUID]*PropertySet, visited map[ExtendedGUID]bool, diag *diagnostics) *Entity {
	if visited[oid] {
		return nil
	}
	visited[oid] = true

	decl, ok := rb.decls[oid]
	if !ok {
		return nil
	}
	ps := propSets[oid]
	e := &Entity{Kind: entityKindForJCID(decl.jcid), OID: oid, JCID: decl.jcid, Properties: ps}

	if ps != nil {
		if v, ok := ps.find(PropertyNameElementChildren); ok {
			for _, childOID := range v.ObjectIDs {
				if child := newEntityNode(childOID, rb, propSets, visited, diag); child != nil {
					e.Children = append(e.Children, child)
				}
			}
		}
	}
	return e
}

// extractFiles resolves every PropertyNameFileDataRef property across a
// revision's property sets to its target file-bearing object declaration
// and pulls the payload out via the File-Data Extractor (spec.md §4.7),
// pairing it with a PropertyNameFilename property on the same property
// set when present.
func extractFiles(rb *revisionBuild, propSets map[ExtendedGUID]*PropertySet, buf []byte, diag *diagnostics) []*ExtractedFile {
	var out []*ExtractedFile
	for _, oid := range rb.order {
		ps := propSets[oid]
		if ps == nil {
			continue
		}
		ref, ok := ps.find(PropertyNameFileDataRef)
		if !ok || len(ref.ObjectIDs) == 0 {
			continue
		}
		targetOID := ref.ObjectIDs[0]
		decl, ok := rb.decls[targetOID]
		if !ok || !decl.jcid.isFileBearing() {
			continue
		}
		payload, err := extractFileData(buf, decl.bodyRef)
		if err != nil {
			if de, ok := err.(*DecodeError); ok {
				diag.recordErr(SeverityRecoverable, de.Offset, de)
			}
			continue
		}
		name := ""
		if fn, ok := ps.find(PropertyNameFilename); ok {
			name = fn.Text()
		}
		out = append(out, &ExtractedFile{OID: targetOID, Filename: name, Payload: payload})
	}
	return out
}

func sliceRef(buf []byte, r ref) ([]byte, error) {
	rd := newReader(buf)
	return rd.sliceAt(int64(r.stp), int64(r.cb))
}

func (r ref) stpAsOffset() int64 { return int64(r.stp) }
