// Package report renders a decoded onefile.Document to the JSON shape
// named in spec.md §6: one object per section with nested pages/outlines/
// text, a files array, and a links array.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/onevault/onecue/onefile"
)

// Section names accepted by --json-include (SPEC_FULL.md's supplemented
// feature: spec.md §6 leaves this set open).
const (
	SectionHeaders     = "headers"
	SectionSections    = "sections"
	SectionPages       = "pages"
	SectionText        = "text"
	SectionFiles       = "files"
	SectionLinks       = "links"
	SectionDiagnostics = "diagnostics"
)

// DefaultSections is the full set rendered when --json-include is absent.
var DefaultSections = []string{
	SectionHeaders, SectionSections, SectionPages, SectionText,
	SectionFiles, SectionLinks, SectionDiagnostics,
}

// Options controls what the report includes, mirroring
// `lorenz-winsysroot/vfs.go`'s struct-of-flags-plus-tree shape.
type Options struct {
	Sections       map[string]bool
	FilesNoContent bool // --json-files-no-content: digest instead of payload
}

// NewOptions builds an Options from the comma-separated --json-include
// value; an empty list means "all sections".
func NewOptions(sections []string, filesNoContent bool) Options {
	set := make(map[string]bool, len(sections))
	if len(sections) == 0 {
		sections = DefaultSections
	}
	for _, s := range sections {
		set[s] = true
	}
	return Options{Sections: set, FilesNoContent: filesNoContent}
}

func (o Options) has(section string) bool { return o.Sections[section] }

// headerReport renders onefile.Header's kind, file GUID and format GUID in
// display form; the file-type GUID is not included.
type headerReport struct {
	Kind           string `json:"kind"`
	GUIDFile       string `json:"guidFile"`
	GUIDFileFormat string `json:"guidFileFormat"`
}

type entityReport struct {
	Kind     string          `json:"kind"`
	OID      string          `json:"oid"`
	Text     string          `json:"text,omitempty"`
	Links    []string        `json:"links,omitempty"`
	Children []*entityReport `json:"children,omitempty"`
}

type fileReport struct {
	OID      string `json:"oid"`
	Filename string `json:"filename"`
	Size     int    `json:"size"`
	// Content carries the raw payload; encoding/json base64-encodes a
	// []byte automatically, so embedded binary survives verbatim instead
	// of being mangled by a direct string conversion (invalid UTF-8 bytes
	// would otherwise be replaced with U+FFFD on marshal).
	Content []byte `json:"content,omitempty"`
	SHA256  string `json:"sha256,omitempty"`
}

type diagnosticReport struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Offset   int64  `json:"offset"`
	Detail   string `json:"detail"`
}

// Report is the top-level JSON document written to the -j target.
type Report struct {
	Header      *headerReport       `json:"header,omitempty"`
	Sections    []*entityReport     `json:"sections,omitempty"`
	Links       []string            `json:"links,omitempty"`
	Files       []*fileReport       `json:"files,omitempty"`
	Diagnostics []*diagnosticReport `json:"diagnostics,omitempty"`
}

// Build assembles a Report from a decoded Document per the selected
// Options.
func Build(doc *onefile.Document, opt Options) *Report {
	r := &Report{}

	if opt.has(SectionHeaders) && doc.Header != nil {
		r.Header = &headerReport{
			Kind:           doc.Header.Kind.String(),
			GUIDFile:       doc.Header.GUIDFile.String(),
			GUIDFileFormat: doc.Header.GUIDFileFormat.String(),
		}
	}

	if opt.has(SectionSections) || opt.has(SectionPages) || opt.has(SectionText) {
		for _, os := range doc.ObjectSpaces {
			if os.Root == nil {
				continue
			}
			r.Sections = append(r.Sections, buildEntity(os.Root, opt))
		}
	}

	if opt.has(SectionLinks) {
		r.Links = doc.Hyperlinks()
	}

	if opt.has(SectionFiles) {
		for _, f := range doc.Files {
			fr := &fileReport{OID: f.OID.String(), Filename: f.Filename, Size: len(f.Payload)}
			if opt.FilesNoContent {
				sum := sha256.Sum256(f.Payload)
				fr.SHA256 = hex.EncodeToString(sum[:])
			} else {
				fr.Content = f.Payload
			}
			r.Files = append(r.Files, fr)
		}
	}

	if opt.has(SectionDiagnostics) {
		for _, d := range doc.Diagnostics {
			r.Diagnostics = append(r.Diagnostics, &diagnosticReport{
				Kind:     d.Kind.String(),
				Severity: d.Severity.String(),
				Offset:   d.Offset,
				Detail:   d.Detail,
			})
		}
	}

	return r
}

func buildEntity(e *onefile.Entity, opt Options) *entityReport {
	er := &entityReport{Kind: e.Kind.String(), OID: e.OID.String()}
	if opt.has(SectionText) {
		er.Text = e.Text()
	}
	if opt.has(SectionLinks) {
		er.Links = e.Hyperlinks()
	}
	for _, c := range e.Children {
		er.Children = append(er.Children, buildEntity(c, opt))
	}
	return er
}

// Write encodes the report as indented JSON, the way
// `lorenz-winsysroot/vfs.go`'s vfsTargetLayer.Close renders its VFS
// overlay (json.MarshalIndent, tab indent).
func Write(w io.Writer, r *Report) error {
	raw, err := json.MarshalIndent(r, "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
