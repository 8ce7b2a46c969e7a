package onefile

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// fileBuilder assembles a synthetic .one/.onetoc2 file by appending
// sequential segments and patching embedded references to their
// now-known absolute offsets once the forward-referenced segment has
// actually been written, mirroring the four-layer structure spec.md
// §3-§5 describe.
type fileBuilder struct {
	buf []byte
}

func (b *fileBuilder) offset() int64 { return int64(len(b.buf)) }

func (b *fileBuilder) u32(v uint32) {
	x := make([]byte, 4)
	binary.LittleEndian.PutUint32(x, v)
	b.buf = append(b.buf, x...)
}

func (b *fileBuilder) u64(v uint64) {
	x := make([]byte, 8)
	binary.LittleEndian.PutUint64(x, v)
	b.buf = append(b.buf, x...)
}

func (b *fileBuilder) bytes(v []byte) { b.buf = append(b.buf, v...) }

func (b *fileBuilder) zeros(n int) { b.buf = append(b.buf, make([]byte, n)...) }

func (b *fileBuilder) patchU64(at int64, v uint64) {
	binary.LittleEndian.PutUint64(b.buf[at:], v)
}

func (b *fileBuilder) patchU32(at int64, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[at:], v)
}

// node appends one FileNode: header word, an optional embedded
// FileChunkReference (stpU64/cbU32) with a placeholder stp of 0 that the
// caller patches once the target offset is known, then body bytes. It
// returns the byte offset of the embedded stp field (0 if bt is none).
func (b *fileBuilder) node(id FileNodeID, bt baseType, embCb uint32, body []byte) (stpFieldOffset int64) {
	size := 4 + len(body)
	if bt != baseTypeNone {
		size += 12
	}
	b.u32(encodeFileNodeHeader(id, uint32(size), stpU64, cbU32, bt, false))
	if bt != baseTypeNone {
		stpFieldOffset = b.offset()
		b.u64(0)
		b.u32(embCb)
	}
	b.bytes(body)
	return stpFieldOffset
}

func (b *fileBuilder) chunkTerminator() {
	b.u32(encodeFileNodeHeader(FileNodeChunkTerminatorFND, 4, stpU64, cbU32, baseTypeNone, false))
}

// fragmentFooter closes one FileNodeList fragment: a nil next-fragment
// reference and the footer magic.
func (b *fileBuilder) fragmentFooter() {
	b.u64(0xFFFFFFFFFFFFFFFF)
	b.u32(0xFFFFFFFF)
	b.u64(fileNodeListFooterMagic)
}

func (b *fileBuilder) fragmentHeader() {
	b.u64(fileNodeListHeaderMagic)
	b.u32(1) // FileNodeListID
	b.u32(0) // FragmentSequence
}

func utf16NulTerminated(s string) []byte {
	out := make([]byte, 0, 2*(len(s)+1))
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	out = append(out, 0, 0)
	return out
}

// buildMinimalSectionFile assembles a single-section .one file whose root
// entity carries a DisplayName property, exercising the full header ->
// root list -> object-space list -> revision list -> property-set path
// (spec.md §8 scenario "one section").
func buildMinimalSectionFile(t *testing.T, displayName string) []byte {
	t.Helper()
	b := &fileBuilder{}
	b.zeros(headerSize) // patched with the real signature/ref below

	rootListOff := b.offset()
	b.fragmentHeader()
	osListRefStpAt := b.node(FileNodeObjectSpaceManifestListReferenceFND, baseTypeNodeList, 0, nil)
	b.chunkTerminator()
	b.fragmentFooter()
	rootListEnd := b.offset()

	objectSpaceListOff := b.offset()
	b.patchU64(osListRefStpAt, uint64(objectSpaceListOff))

	b.fragmentHeader()
	gosid := ExtendedGUID{GUID: guidFromBytes([]byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}), N: 1}
	var gosidBody []byte
	gosidBody = append(gosidBody, gosid.GUID[:]...)
	gosidBody = appendU32(gosidBody, gosid.N)
	b.node(FileNodeObjectSpaceManifestListStartFND, baseTypeNone, 0, gosidBody)
	revListRefStpAt := b.node(FileNodeRevisionManifestListReferenceFND, baseTypeNodeList, 0, nil)
	b.chunkTerminator()
	b.fragmentFooter()

	revisionListOff := b.offset()
	b.patchU64(revListRefStpAt, uint64(revisionListOff))

	b.fragmentHeader()
	b.node(FileNodeRevisionManifestStart4FND, baseTypeNone, 0, nil)
	b.node(FileNodeGlobalIdTableStartFNDX, baseTypeNone, 0, nil)

	targetGUID := guidFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	var entryBody []byte
	entryBody = appendU32(entryBody, 0) // index 0
	entryBody = append(entryBody, targetGUID[:]...)
	entryBody = appendU32(entryBody, 0) // n
	b.node(FileNodeGlobalIdTableEntryFNDX, baseTypeNone, 0, entryBody)
	b.node(FileNodeGlobalIdTableEndFNDX, baseTypeNone, 0, nil)

	var declBody []byte
	declBody = appendU32(declBody, 0)          // oid CompactID: guidIndex 0, n 0
	declBody = appendU32(declBody, 0x00060007) // JCID: SectionNode, IsPropertySet|IsGraphNode
	declRefStpAt := b.node(FileNodeObjectDeclarationWithRefCountFNDX, baseTypeRawData, 0, declBody)

	b.node(FileNodeRevisionManifestEndFND, baseTypeNone, 0, nil)
	b.chunkTerminator()
	b.fragmentFooter()

	propSetOff := b.offset()

	// OIDs stream: 0 entries, OSIDs absent, no extended streams.
	b.bytes(encodeIDStream(0, true, false, nil))
	// PropertySet body: one DisplayName FourBytesLengthData property.
	nameBytes := utf16NulTerminated(displayName)
	b.buf = append(b.buf, 0x01, 0x00) // property count = 1
	propID := PropertyID(PropertyNameDisplayName | uint32(tagFourBytesLengthData)<<26)
	b.u32(uint32(propID))
	b.u32(uint32(len(nameBytes)))
	b.bytes(nameBytes)

	propSetLen := b.offset() - propSetOff
	b.patchU64(declRefStpAt, uint64(propSetOff))
	b.patchU32(declRefStpAt+8, uint32(propSetLen))

	// Now patch the fixed header with the real section signature and the
	// root list's reference.
	copy(b.buf[headerOffsetFileType:], guidFileTypeSection[:])
	b.patchU64(headerOffsetNodeListRef, uint64(rootListOff))
	b.patchU32(headerOffsetNodeListRef+8, uint32(rootListEnd-rootListOff))

	return b.buf
}

func TestParseMinimalSection(t *testing.T) {
	buf := buildMinimalSectionFile(t, "Hi")

	doc, diags := Parse(buf)
	if doc == nil {
		t.Fatalf("Parse() returned nil Document, diagnostics: %v", diags)
	}
	for _, d := range diags {
		if d.Severity == SeverityFatal {
			t.Fatalf("Parse() produced a fatal diagnostic: %v", d)
		}
	}
	if doc.Header.Kind != FileKindSection {
		t.Errorf("Header.Kind = %v, want %v", doc.Header.Kind, FileKindSection)
	}
	if len(doc.ObjectSpaces) != 1 {
		t.Fatalf("len(ObjectSpaces) = %d, want 1", len(doc.ObjectSpaces))
	}
	root := doc.ObjectSpaces[0].Root
	if root == nil {
		t.Fatal("ObjectSpaces[0].Root is nil")
	}
	if root.JCID.Index() != JCIDSectionNode {
		t.Errorf("root.JCID.Index() = %#x, want %#x", root.JCID.Index(), JCIDSectionNode)
	}
	if got := root.Text(); got != "Hi" {
		t.Errorf("root.Text() = %q, want %q", got, "Hi")
	}
}

// TestParseIsIdempotent checks spec.md §8's round-trip law: parsing the
// same input twice produces structurally equal entity trees, modulo the
// ordering of independent diagnostics.
func TestParseIsIdempotent(t *testing.T) {
	buf := buildMinimalSectionFile(t, "Hi")

	docA, _ := Parse(buf)
	docB, _ := Parse(buf)

	opts := []cmp.Option{
		cmpopts.IgnoreFields(Document{}, "Diagnostics"),
		cmpopts.IgnoreFields(Header{}, "nodeListRoot", "txLogRef"),
		cmp.Comparer(func(a, b ExtendedGUID) bool { return a.Equal(b) }),
	}
	if diff := cmp.Diff(docA, docB, opts...); diff != "" {
		t.Errorf("Parse() is not idempotent: diff (-first +second):\n%s", diff)
	}
}

func TestParseEmptyFile(t *testing.T) {
	doc, diags := Parse([]byte{0x00})
	if doc != nil {
		t.Error("Parse() of a 1-byte file returned a non-nil Document")
	}
	if len(diags) == 0 {
		t.Fatal("Parse() of a 1-byte file produced no diagnostics")
	}
	if diags[0].Severity != SeverityFatal || diags[0].Kind != KindTruncatedInput {
		t.Errorf("diags[0] = %v, want fatal TruncatedInput", diags[0])
	}
}
