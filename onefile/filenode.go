package onefile

// FileNodeID identifies the typed payload that follows a FileNode header
// (spec.md §3, §4.4). The known set below drives dispatch in both the
// FileNodeList walker and the object-space/revision layer; anything
// outside it is a recoverable KindUnknownNodeID, skipped via the node's
// own Size field rather than aborting the walk.
type FileNodeID uint16

// Known FileNodeIDs, grouped by the layer that consumes them. Values
// follow the 10-bit field layout of spec.md §3; the object-space/revision
// layer (objectspace.go) is the only consumer of most of these, the
// walker itself only special-cases ChunkTerminator.
const (
	FileNodeObjectSpaceManifestRootFND           FileNodeID = 0x004
	FileNodeObjectSpaceManifestListReferenceFND  FileNodeID = 0x008
	FileNodeObjectSpaceManifestListStartFND      FileNodeID = 0x00C
	FileNodeRevisionManifestListReferenceFND     FileNodeID = 0x010
	FileNodeRevisionManifestListStartFND         FileNodeID = 0x014
	FileNodeRevisionManifestStart4FND            FileNodeID = 0x01B
	FileNodeRevisionManifestEndFND               FileNodeID = 0x01E
	FileNodeRevisionManifestStart6FND            FileNodeID = 0x021
	FileNodeRevisionManifestStart7FND            FileNodeID = 0x024
	FileNodeGlobalIdTableStartFNDX               FileNodeID = 0x01C
	FileNodeGlobalIdTableStart2FND                FileNodeID = 0x02D
	FileNodeGlobalIdTableEntryFNDX                FileNodeID = 0x01D
	FileNodeGlobalIdTableEntry2FNDX                FileNodeID = 0x02E
	FileNodeGlobalIdTableEntry3FNDX                FileNodeID = 0x029
	FileNodeGlobalIdTableEndFNDX                  FileNodeID = 0x02A
	FileNodeObjectDeclarationWithRefCountFNDX     FileNodeID = 0x02C
	FileNodeObjectDeclarationWithRefCount2FNDX    FileNodeID = 0x02B
	FileNodeObjectRevisionWithRefCountFNDX        FileNodeID = 0x042
	FileNodeObjectRevisionWithRefCount2FNDX       FileNodeID = 0x043
	FileNodeObjectDeclaration2RefCountFND         FileNodeID = 0x090
	FileNodeObjectDeclaration2LargeRefCountFND    FileNodeID = 0x091
	FileNodeChunkTerminatorFND                    FileNodeID = 0x0FF
)

// knownNodeIDs backs the UnknownNodeId diagnostic: any FileNodeID not in
// this set is recoverable, not fatal (spec.md §4.4).
var knownNodeIDs = map[FileNodeID]bool{
	FileNodeObjectSpaceManifestRootFND:          true,
	FileNodeObjectSpaceManifestListReferenceFND: true,
	FileNodeObjectSpaceManifestListStartFND:     true,
	FileNodeRevisionManifestListReferenceFND:    true,
	FileNodeRevisionManifestListStartFND:        true,
	FileNodeRevisionManifestStart4FND:           true,
	FileNodeRevisionManifestEndFND:              true,
	FileNodeRevisionManifestStart6FND:           true,
	FileNodeRevisionManifestStart7FND:           true,
	FileNodeGlobalIdTableStartFNDX:              true,
	FileNodeGlobalIdTableStart2FND:               true,
	FileNodeGlobalIdTableEntryFNDX:               true,
	FileNodeGlobalIdTableEntry2FNDX:               true,
	FileNodeGlobalIdTableEntry3FNDX:               true,
	FileNodeGlobalIdTableEndFNDX:                 true,
	FileNodeObjectDeclarationWithRefCountFNDX:    true,
	FileNodeObjectDeclarationWithRefCount2FNDX:   true,
	FileNodeObjectRevisionWithRefCountFNDX:       true,
	FileNodeObjectRevisionWithRefCount2FNDX:      true,
	FileNodeObjectDeclaration2RefCountFND:        true,
	FileNodeObjectDeclaration2LargeRefCountFND:   true,
	FileNodeChunkTerminatorFND:                   true,
}

// baseType classifies whether a FileNode's payload begins with an
// embedded FileChunkReference and, if so, what it points at (spec.md §3).
type baseType uint8

const (
	baseTypeNone     baseType = 0
	baseTypeRawData  baseType = 1
	baseTypeNodeList baseType = 2
)

// fileNodeHeader is the decomposed 32-bit FileNode header (spec.md §3):
//
//	bits  0- 9: FileNodeID
//	bits 10-22: Size (total byte length of the node, header included)
//	bits 23-24: StpFormat
//	bits 25-26: CbFormat
//	bits 27-30: BaseType
//	bit     31: Reserved, must be 0
type fileNodeHeader struct {
	id        FileNodeID
	size      uint32
	stpFormat stpFormat
	cbFormat  cbFormat
	baseType  baseType
	reserved  bool
}

func decodeFileNodeHeader(raw uint32) fileNodeHeader {
	return fileNodeHeader{
		id:        FileNodeID(raw & 0x3FF),
		size:      (raw >> 10) & 0x1FFF,
		stpFormat: stpFormat((raw >> 23) & 0x3),
		cbFormat:  cbFormat((raw >> 25) & 0x3),
		baseType:  baseType((raw >> 27) & 0xF),
		reserved:  raw&0x80000000 != 0,
	}
}
