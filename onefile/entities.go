package onefile

// EntityKind classifies a decoded object by its JCID index (spec.md §3).
// Grounded on the single-struct-with-a-type-field shape of
// `lorenz-winsysroot/vfs.go`'s Inode, generalized from a string Type tag
// to a closed Go enum since the JCID space here is fixed and known.
type EntityKind int

const (
	EntityUnknown EntityKind = iota
	EntitySection
	EntityPage
	EntityOutline
	EntityRichText
	EntityImage
	EntityEmbeddedFile
)

func (k EntityKind) String() string {
	switch k {
	case EntitySection:
		return "section"
	case EntityPage:
		return "page"
	case EntityOutline:
		return "outline"
	case EntityRichText:
		return "richText"
	case EntityImage:
		return "image"
	case EntityEmbeddedFile:
		return "embeddedFile"
	default:
		return "unknown"
	}
}

func entityKindForJCID(j JCID) EntityKind {
	switch j.Index() {
	case JCIDSectionNode:
		return EntitySection
	case JCIDPageNode:
		return EntityPage
	case JCIDOutlineNode:
		return EntityOutline
	case JCIDRichTextOENode:
		return EntityRichText
	case JCIDImageNode:
		return EntityImage
	case JCIDEmbeddedFileNode:
		return EntityEmbeddedFile
	default:
		return EntityUnknown
	}
}

// Entity is one node of the decoded tree: a section, page, outline,
// rich-text run, image, or embedded file, carrying its property bag and
// its children in declaration order.
type Entity struct {
	Kind       EntityKind
	OID        ExtendedGUID
	JCID       JCID
	Properties *PropertySet
	Children   []*Entity
}

// Text returns the entity's primary text property (display name for a
// section/page, body for a rich-text run), decoded as UTF-16, or "" if it
// carries none.
func (e *Entity) Text() string {
	if e.Properties == nil {
		return ""
	}
	if v, ok := e.Properties.find(PropertyNameRichEditText); ok {
		return v.Text()
	}
	if v, ok := e.Properties.find(PropertyNameDisplayName); ok {
		return v.Text()
	}
	return ""
}

// Hyperlinks returns this entity's own hyperlink-URL properties, decoded
// as UTF-16 text. This is a SPEC_FULL.md addition (spec.md §1 names
// hyperlink-following; §§2-8 give it no operation): a pure post-pass over
// the already-decoded property bag, not a new decode path.
func (e *Entity) Hyperlinks() []string {
	if e.Properties == nil {
		return nil
	}
	var out []string
	for _, v := range e.Properties.Values {
		if v.Name == PropertyNameHyperlinkURL && v.Tag == tagFourBytesLengthData {
			out = append(out, v.Text())
		}
	}
	return out
}

// walk calls fn for this entity and every descendant, depth-first.
func (e *Entity) walk(fn func(*Entity)) {
	fn(e)
	for _, c := range e.Children {
		c.walk(fn)
	}
}

// ExtractedFile is one embedded payload pulled from a FileDataStoreObject
// (spec.md §4.7), paired with the suggested filename recovered from the
// referencing object's property set.
type ExtractedFile struct {
	OID      ExtendedGUID
	Filename string
	Payload  []byte
}

// ObjectSpace is one decoded object space: its identity and the entity
// tree rooted at its current revision (spec.md §3, §4.5). Older revisions
// are not retained (spec.md §9 Open Question 1).
type ObjectSpace struct {
	GOSID ExtendedGUID
	Root  *Entity
}

// Document is the core's top-level output: every object space the file
// declares, every file successfully extracted from it, and the
// diagnostics accumulated along the way (spec.md §7's "possibly-partial
// entity tree plus a list of diagnostics").
type Document struct {
	Header       *Header
	ObjectSpaces []*ObjectSpace
	Files        []*ExtractedFile
	Diagnostics  []Diagnostic
}

// Hyperlinks aggregates Hyperlinks() across every entity in every object
// space.
func (d *Document) Hyperlinks() []string {
	var out []string
	for _, os := range d.ObjectSpaces {
		if os.Root == nil {
			continue
		}
		os.Root.walk(func(e *Entity) {
			out = append(out, e.Hyperlinks()...)
		})
	}
	return out
}
