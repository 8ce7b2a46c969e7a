package onefile

import (
	"encoding/binary"
	"testing"
)

// buildHeader returns a minimal well-formed 1024-byte OneNote header with
// the given file-type signature and the node-list root reference fixed at
// fixed byte offsets (spec.md §3).
func buildHeader(sig GUID, nodeListRef ref) []byte {
	buf := make([]byte, headerSize)
	copy(buf[headerOffsetFileType:], sig[:])
	copy(buf[headerOffsetFile:], guidFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})[:])
	copy(buf[headerOffsetFileFormat:], guidFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})[:])
	binary.LittleEndian.PutUint64(buf[headerOffsetNodeListRef:], nodeListRef.stp)
	binary.LittleEndian.PutUint32(buf[headerOffsetNodeListRef+8:], uint32(nodeListRef.cb))
	// fcrTransactionLog left nil (all zero).
	return buf
}

func TestReadHeaderKind(t *testing.T) {
	tests := []struct {
		name string
		sig  GUID
		want FileKind
	}{
		{"section", guidFileTypeSection, FileKindSection},
		{"toc", guidFileTypeTOC, FileKindTOC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := buildHeader(tt.sig, ref{stp: 1024, cb: 64})
			r := newReader(buf)
			hdr, err := readHeader(r)
			if err != nil {
				t.Fatalf("readHeader() error = %v", err)
			}
			if hdr.Kind != tt.want {
				t.Errorf("readHeader().Kind = %v, want %v", hdr.Kind, tt.want)
			}
			if hdr.nodeListRoot.stp != 1024 || hdr.nodeListRoot.cb != 64 {
				t.Errorf("readHeader().nodeListRoot = %+v, want {stp:1024 cb:64}", hdr.nodeListRoot)
			}
		})
	}
}

func TestReadHeaderBadSignature(t *testing.T) {
	buf := buildHeader(guidFromBytes(make([]byte, 16)), ref{})
	r := newReader(buf)
	_, err := readHeader(r)
	if err == nil {
		t.Fatal("readHeader() with unrecognized signature: want error, got nil")
	}
	de, ok := err.(*DecodeError)
	if !ok {
		t.Fatalf("readHeader() error type = %T, want *DecodeError", err)
	}
	if de.Kind != KindBadSignature {
		t.Errorf("readHeader() error Kind = %v, want %v", de.Kind, KindBadSignature)
	}
	if !de.Fatal() {
		t.Error("KindBadSignature.Fatal() = false, want true")
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	buf := buildHeader(guidFileTypeSection, ref{})
	buf = buf[:512]
	r := newReader(buf)
	if _, err := readHeader(r); err == nil {
		t.Fatal("readHeader() on truncated buffer: want error, got nil")
	}
}
