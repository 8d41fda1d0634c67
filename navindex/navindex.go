// Package navindex reads and writes the compact binary navigator index
// format describing a documentation bundle's topic tree.
//
// An index location is a directory holding three artifacts: the navigator
// index itself (path table and topic tree), a record data blob, and an
// availability blob. An index can be opened shallow, decoding only the
// path table needed for path and identifier lookups, with the full tree
// populated later by ReadTree under a timeout.
package navindex

// Artifact file names inside an index directory.
const (
	IndexFile        = "navigator.index"
	DataFile         = "data.mdb"
	AvailabilityFile = "availability.index"
)

// ArtifactFiles lists every artifact an index location must provide.
var ArtifactFiles = []string{IndexFile, DataFile, AvailabilityFile}

// Language tags the interface language a topic path belongs to.
type Language uint8

// Interface languages.
const (
	LanguageSwift Language = iota
	LanguageObjC
	LanguageData
)

// String returns the language's name.
func (l Language) String() string {
	switch l {
	case LanguageSwift:
		return "swift"
	case LanguageObjC:
		return "occ"
	case LanguageData:
		return "data"
	default:
		return "unknown"
	}
}

// PageType classifies a topic node for presentation.
type PageType uint8

// Page types.
const (
	PageTypeRoot PageType = iota
	PageTypeFramework
	PageTypeArticle
	PageTypeTutorial
	PageTypeSymbol
)

// Node is one topic in a navigator tree. Node identifiers are unique
// within their index; the TopLevelID attribute is stamped during parsing
// so tree nodes can be addressed across multiple loaded indices.
type Node struct {
	// ID is the node's numeric identifier, unique within the index.
	ID uint32

	// Title is the topic's display title.
	Title string

	// Type classifies the topic page.
	Type PageType

	// Language is the node's interface language tag.
	Language Language

	// Children are the node's ordered children.
	Children []*Node

	// TopLevelID is the navigator-assigned identifier of the index this
	// node belongs to. Zero until stamped via the read callback.
	TopLevelID uint32
}

// PathEntry maps a (path, language) pair to a node identifier.
type PathEntry struct {
	ID       uint32
	Language Language
	Path     string
}
