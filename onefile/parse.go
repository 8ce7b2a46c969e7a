package onefile

// Parse decodes a whole OneNote file buffer: the fixed header, the root
// FileNodeList, and every object space it reaches, returning a
// possibly-partial Document plus the diagnostics accumulated along the
// way (spec.md §7). Only a failure to decode the fixed header (a bad
// signature or a truncated header), or an always-fatal Kind from the root
// list walk, aborts the run outright; any other root-list error is
// recorded as recoverable and the nodes decoded before it are still
// processed, and everything else is pruned to a diagnostic.
func Parse(buf []byte) (*Document, []Diagnostic) {
	diag := &diagnostics{}

	r := newReader(buf)
	hdr, err := readHeader(r)
	if err != nil {
		de := err.(*DecodeError)
		diag.recordErr(SeverityFatal, de.Offset, de)
		return nil, diag.entries
	}

	rootNodes, err := walkNodeList(buf, hdr.nodeListRoot, 0, diag)
	if err != nil {
		de := err.(*DecodeError)
		if de.Fatal() {
			diag.recordErr(SeverityFatal, de.Offset, de)
			return &Document{Header: hdr, Diagnostics: diag.entries}, diag.entries
		}
		diag.recordErr(SeverityRecoverable, de.Offset, de)
	}

	doc := &Document{Header: hdr}

	for _, n := range rootNodes {
		switch n.hdr.id {
		case FileNodeObjectSpaceManifestListReferenceFND:
			os, files := processObjectSpace(n.children, buf, diag)
			doc.ObjectSpaces = append(doc.ObjectSpaces, os)
			doc.Files = append(doc.Files, files...)
		}
	}

	doc.Diagnostics = diag.entries
	return doc, diag.entries
}
