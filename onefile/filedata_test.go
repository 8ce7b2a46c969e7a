package onefile

import (
	"encoding/binary"
	"testing"
)

func buildFileDataStore(payload []byte) []byte {
	var buf []byte
	buf = append(buf, fileDataStoreHeaderGUID[:]...)
	cb := make([]byte, 8)
	binary.LittleEndian.PutUint64(cb, uint64(len(payload)))
	buf = append(buf, cb...)
	buf = append(buf, make([]byte, 4)...) // unused
	buf = append(buf, make([]byte, 8)...) // reserved
	buf = append(buf, payload...)
	buf = append(buf, fileDataStoreFooterGUID[:]...)
	return buf
}

func TestExtractFileData(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	frame := buildFileDataStore(payload)
	buf := append(make([]byte, 32), frame...)
	r := ref{stp: 32, cb: uint64(len(frame))}

	got, err := extractFileData(buf, r)
	if err != nil {
		t.Fatalf("extractFileData() error = %v", err)
	}
	if len(got) != len(payload) {
		t.Fatalf("extractFileData() length = %d, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Errorf("extractFileData()[%d] = %#x, want %#x", i, got[i], payload[i])
		}
	}
}

func TestExtractFileDataBadFooterGUID(t *testing.T) {
	payload := []byte{0x01, 0x02}
	frame := buildFileDataStore(payload)
	// Corrupt the last byte of the footer GUID.
	frame[len(frame)-1] ^= 0xFF
	buf := append(make([]byte, 16), frame...)
	r := ref{stp: 16, cb: uint64(len(frame))}

	_, err := extractFileData(buf, r)
	if err == nil {
		t.Fatal("extractFileData() with corrupted footer GUID: want error, got nil")
	}
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
	if de.Kind != KindCorruptDataStore {
		t.Errorf("error Kind = %v, want %v", de.Kind, KindCorruptDataStore)
	}
}

func TestExtractFileDataNilRef(t *testing.T) {
	_, err := extractFileData(nil, ref{isNil: true})
	if err == nil {
		t.Fatal("extractFileData() with nil reference: want error, got nil")
	}
}
