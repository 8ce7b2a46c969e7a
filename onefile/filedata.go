package onefile

var (
	fileDataStoreHeaderGUID = guidFromBytes([]byte{
		0xE7, 0x16, 0xE3, 0xBD, 0x65, 0x26, 0x11, 0x45,
		0xA4, 0xC4, 0x8D, 0x4D, 0x0B, 0x7A, 0x9E, 0xAC,
	})
	fileDataStoreFooterGUID = guidFromBytes([]byte{
		0x22, 0xA7, 0xFB, 0x71, 0x79, 0x0F, 0x0B, 0x4A,
		0xBB, 0x13, 0x89, 0x92, 0x56, 0x42, 0x6B, 0x24,
	})
)

// extractFileData reads a FileDataStoreObject frame at the given reference:
// 36-byte header (guidHeader, cbLength, unused, reserved), cbLength bytes
// of verbatim payload, 16-byte footer (guidFooter). Fails with
// KindCorruptDataStore on either GUID mismatch or a length that overruns
// the buffer (spec.md §4.7).
func extractFileData(buf []byte, r ref) ([]byte, error) {
	if r.IsNil() {
		return nil, newDecodeError(KindCorruptDataStore, 0, "embedded file object carries no data-store reference")
	}
	rd := newReader(buf)
	rd.seek(int64(r.stp))

	hdrGUID, err := rd.readGUID()
	if err != nil {
		return nil, wrapDecodeError(KindCorruptDataStore, int64(r.stp), err, "reading FileDataStoreObject header GUID")
	}
	if hdrGUID != fileDataStoreHeaderGUID {
		return nil, newDecodeError(KindCorruptDataStore, int64(r.stp), "FileDataStoreObject header GUID mismatch: got %s", hdrGUID)
	}

	cbLength, err := rd.readU64()
	if err != nil {
		return nil, wrapDecodeError(KindCorruptDataStore, rd.tell(), err, "reading cbLength")
	}
	if _, err := rd.readU32(); err != nil { // unused
		return nil, wrapDecodeError(KindCorruptDataStore, rd.tell(), err, "reading unused field")
	}
	if _, err := rd.readU64(); err != nil { // reserved
		return nil, wrapDecodeError(KindCorruptDataStore, rd.tell(), err, "reading reserved field")
	}

	payload, err := rd.readBytes(int64(cbLength))
	if err != nil {
		return nil, wrapDecodeError(KindCorruptDataStore, rd.tell(), err, "reading payload of length %d", cbLength)
	}

	ftrGUID, err := rd.readGUID()
	if err != nil {
		return nil, wrapDecodeError(KindCorruptDataStore, rd.tell(), err, "reading FileDataStoreObject footer GUID")
	}
	if ftrGUID != fileDataStoreFooterGUID {
		return nil, newDecodeError(KindCorruptDataStore, rd.tell()-16, "FileDataStoreObject footer GUID mismatch: got %s", ftrGUID)
	}

	return payload, nil
}
