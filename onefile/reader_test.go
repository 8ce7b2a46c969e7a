package onefile

import "testing"

func TestReaderReadU32(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want uint32
	}{
		{"zero", []byte{0x00, 0x00, 0x00, 0x00}, 0},
		{"littleEndian", []byte{0x01, 0x02, 0x03, 0x04}, 0x04030201},
		{"max", []byte{0xFF, 0xFF, 0xFF, 0xFF}, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newReader(tt.buf)
			got, err := r.readU32()
			if err != nil {
				t.Fatalf("readU32() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("readU32() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestReaderTruncated(t *testing.T) {
	r := newReader([]byte{0x01, 0x02})
	if _, err := r.readU32(); err == nil {
		t.Fatal("readU32() on 2-byte buffer: want error, got nil")
	}
}

func TestReaderSliceAtZeroCopy(t *testing.T) {
	buf := []byte{0, 1, 2, 3, 4, 5}
	r := newReader(buf)
	got, err := r.sliceAt(2, 3)
	if err != nil {
		t.Fatalf("sliceAt() error = %v", err)
	}
	want := []byte{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("sliceAt() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sliceAt()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	buf[2] = 0x99
	if got[0] != 0x99 {
		t.Error("sliceAt() did not alias the source buffer")
	}
}

func TestReaderSliceAtOutOfRange(t *testing.T) {
	r := newReader([]byte{0, 1, 2})
	if _, err := r.sliceAt(1, 10); err == nil {
		t.Fatal("sliceAt() past end of buffer: want error, got nil")
	}
}

func TestReaderReadGUID(t *testing.T) {
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = byte(i)
	}
	r := newReader(buf)
	g, err := r.readGUID()
	if err != nil {
		t.Fatalf("readGUID() error = %v", err)
	}
	for i := 0; i < 16; i++ {
		if g[i] != byte(i) {
			t.Errorf("readGUID()[%d] = %d, want %d", i, g[i], i)
		}
	}
}
