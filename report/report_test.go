package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/onevault/onecue/onefile"
)

// TestBuildFileContentSurvivesNonUTF8 guards against the JSON report
// silently corrupting an embedded file's bytes: encoding/json replaces
// invalid UTF-8 sequences with U+FFFD when marshaling a plain string, so
// fileReport.Content must round-trip through []byte (base64), not
// string(payload).
func TestBuildFileContentSurvivesNonUTF8(t *testing.T) {
	payload := []byte{0xFF, 0xFE, 0x00, 0x80, 0x81, 'h', 'i'}
	doc := &onefile.Document{
		Files: []*onefile.ExtractedFile{
			{OID: onefile.ExtendedGUID{N: 1}, Filename: "blob.bin", Payload: payload},
		},
	}

	rep := Build(doc, NewOptions([]string{SectionFiles}, false))
	if len(rep.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(rep.Files))
	}

	var buf bytes.Buffer
	if err := Write(&buf, rep); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded struct {
		Files []struct {
			Content []byte `json:"content"`
		} `json:"files"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(decoded.Files) != 1 {
		t.Fatalf("decoded Files length = %d, want 1", len(decoded.Files))
	}
	if !bytes.Equal(decoded.Files[0].Content, payload) {
		t.Errorf("round-tripped Content = %v, want %v", decoded.Files[0].Content, payload)
	}
}

func TestBuildFileNoContentEmitsDigestInstead(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	doc := &onefile.Document{
		Files: []*onefile.ExtractedFile{
			{OID: onefile.ExtendedGUID{N: 2}, Filename: "blob.bin", Payload: payload},
		},
	}

	rep := Build(doc, NewOptions([]string{SectionFiles}, true))
	if len(rep.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(rep.Files))
	}
	fr := rep.Files[0]
	if fr.Content != nil {
		t.Errorf("Content = %v, want nil when FilesNoContent is set", fr.Content)
	}
	if fr.SHA256 == "" {
		t.Error("SHA256 is empty, want a digest when FilesNoContent is set")
	}
}
