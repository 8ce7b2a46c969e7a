package onefile

// Header offsets, per spec.md §3. Everything outside the fields the core
// uses is opaque metadata the caller may keep verbatim but the decoder
// never interprets.
const (
	headerSize             = 1024
	headerOffsetFileType    = 0
	headerOffsetFile        = 16
	headerOffsetFileFormat  = 48
	headerOffsetNodeListRef = 0x1C8
	headerOffsetTxLogRef    = 0x1D4
)

// FileKind distinguishes the two recognized container kinds (spec.md §6).
type FileKind int

const (
	// FileKindUnknown is never returned by a successful Header decode;
	// it exists only as the zero value.
	FileKindUnknown FileKind = iota
	FileKindSection          // .one
	FileKindTOC              // .onetoc2
)

func (k FileKind) String() string {
	switch k {
	case FileKindSection:
		return "section"
	case FileKindTOC:
		return "toc"
	default:
		return "unknown"
	}
}

var (
	guidFileTypeSection = guidFromBytes([]byte{
		0xE4, 0x52, 0x5C, 0x7B, 0x8C, 0xD8, 0xA7, 0x4D,
		0xAE, 0xB1, 0x53, 0x78, 0xD0, 0x29, 0x96, 0xD3,
	})
	guidFileTypeTOC = guidFromBytes([]byte{
		0xA1, 0x2F, 0xFF, 0x43, 0xD9, 0xEF, 0x76, 0x4C,
		0x9E, 0xE2, 0x10, 0xEA, 0x57, 0x22, 0x76, 0x5F,
	})
)

// Header is the fixed 1024-byte record at offset 0 (spec.md §3). Only the
// fields the core acts on are named; everything else is validated for
// size but not interpreted.
type Header struct {
	Kind           FileKind
	GUIDFileType   GUID
	GUIDFile       GUID
	GUIDFileFormat GUID

	nodeListRoot ref
	txLogRef     ref
}

// readHeader validates the 16-byte file-type signature and reads the
// 1024-byte fixed header, per spec.md §4.3.
func readHeader(r *reader) (*Header, error) {
	sigBytes, err := r.sliceAt(headerOffsetFileType, 16)
	if err != nil {
		return nil, wrapDecodeError(KindTruncatedInput, 0, err, "reading file-type signature")
	}
	sig := guidFromBytes(sigBytes)

	var kind FileKind
	switch sig {
	case guidFileTypeSection:
		kind = FileKindSection
	case guidFileTypeTOC:
		kind = FileKindTOC
	default:
		return nil, newDecodeError(KindBadSignature, 0, "first 16 bytes %x match neither .one nor .onetoc2 signature", sigBytes)
	}

	if err := r.need(headerSize); err != nil {
		return nil, wrapDecodeError(KindTruncatedInput, 0, err, "file shorter than fixed header")
	}

	fileGUIDBytes, err := r.sliceAt(headerOffsetFile, 16)
	if err != nil {
		return nil, wrapDecodeError(KindTruncatedInput, headerOffsetFile, err, "reading guidFile")
	}
	formatGUIDBytes, err := r.sliceAt(headerOffsetFileFormat, 16)
	if err != nil {
		return nil, wrapDecodeError(KindTruncatedInput, headerOffsetFileFormat, err, "reading guidFileFormat")
	}

	r.seek(headerOffsetNodeListRef)
	rootRef, err := r.readRef64x32()
	if err != nil {
		return nil, wrapDecodeError(KindTruncatedInput, headerOffsetNodeListRef, err, "reading fcrFileNodeListRoot")
	}

	r.seek(headerOffsetTxLogRef)
	txRef, err := r.readRef64x32()
	if err != nil {
		return nil, wrapDecodeError(KindTruncatedInput, headerOffsetTxLogRef, err, "reading fcrTransactionLog")
	}

	r.seek(headerSize)

	return &Header{
		Kind:           kind,
		GUIDFileType:   sig,
		GUIDFile:       guidFromBytes(fileGUIDBytes),
		GUIDFileFormat: guidFromBytes(formatGUIDBytes),
		nodeListRoot:   rootRef,
		txLogRef:       txRef,
	}, nil
}
