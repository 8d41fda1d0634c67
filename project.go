package docsee

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Project is the persisted unit of work: it describes which bundles a
// workspace has loaded, in what order, and where their content comes from.
type Project struct {
	// Identifier is a stable unique identifier for the project.
	Identifier string `json:"identifier"`

	// DisplayName is the project's mutable human-readable name.
	DisplayName string `json:"displayName"`

	// Persistent reports whether the project can be persisted. Transient
	// (scratch) projects silently skip persistence on save.
	Persistent bool `json:"-"`

	// Items is the ordered top-level node list, including group markers.
	Items []Node `json:"items"`

	// References maps bundle identifiers to their bundle references.
	References map[BundleIdentifier]Reference `json:"references"`
}

// NewProject creates a transient project with a generated identifier.
func NewProject(displayName string) *Project {
	return &Project{
		Identifier:  uuid.New().String(),
		DisplayName: displayName,
		References:  map[BundleIdentifier]Reference{},
	}
}

// ValidationError reports a structural mismatch between a project's items
// and its references. It is a consistency error reported to the caller, not
// a bug.
type ValidationError struct {
	// MissingReferences lists bundle identifiers referenced by an item but
	// absent from References.
	MissingReferences []string

	// UnusedReferences lists References entries no item refers to.
	UnusedReferences []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("project validation failed: missing references %v, unused references %v",
		e.MissingReferences, e.UnusedReferences)
}

// Validate checks that every bundle item has a matching reference and that
// every reference is used by at least one item. It returns a
// *ValidationError describing both violation sets, or nil.
func (p *Project) Validate() error {
	var missing []string
	unused := make(map[string]struct{}, len(p.References))
	for identifier := range p.References {
		unused[identifier] = struct{}{}
	}

	for _, item := range p.Items {
		if item.Kind != NodeKindBundle {
			continue
		}
		if _, ok := p.References[item.BundleIdentifier]; ok {
			delete(unused, item.BundleIdentifier)
		} else {
			missing = append(missing, item.BundleIdentifier)
		}
	}

	if len(missing) == 0 && len(unused) == 0 {
		return nil
	}

	unusedList := make([]string, 0, len(unused))
	for identifier := range unused {
		unusedList = append(unusedList, identifier)
	}
	sort.Strings(unusedList)

	return &ValidationError{
		MissingReferences: missing,
		UnusedReferences:  unusedList,
	}
}

// NodeKind discriminates project node variants.
type NodeKind string

// Node kinds.
const (
	NodeKindBundle      NodeKind = "bundle"
	NodeKindGroupMarker NodeKind = "groupMarker"
)

// Node is one entry in a project's user-visible top-level ordering: either
// a bundle or a display-only group marker.
type Node struct {
	Kind        NodeKind `json:"kind"`
	DisplayName string   `json:"displayName"`

	// BundleIdentifier is set for bundle nodes only.
	BundleIdentifier BundleIdentifier `json:"bundleIdentifier,omitempty"`
}

// BundleNode creates a project node referring to a bundle.
func BundleNode(displayName string, identifier BundleIdentifier) Node {
	return Node{
		Kind:             NodeKindBundle,
		DisplayName:      displayName,
		BundleIdentifier: identifier,
	}
}

// GroupMarkerNode creates a display-only separator node.
func GroupMarkerNode(displayName string) Node {
	return Node{
		Kind:        NodeKindGroupMarker,
		DisplayName: displayName,
	}
}

// Reference describes where a bundle's content comes from and its metadata.
type Reference struct {
	Source   Source     `json:"source"`
	Metadata BundleInfo `json:"metadata"`
}

// BundleIdentifier returns the identifier of the referenced bundle.
func (r Reference) BundleIdentifier() BundleIdentifier {
	return r.Metadata.Identifier
}

// Bundle reconstructs the documentation bundle described by this reference.
func (r Reference) Bundle() (Bundle, error) {
	switch r.Source.Kind {
	case SourceKindHTTP:
		indexPath := strings.TrimPrefix(r.Source.HTTP.IndexURL, r.Source.HTTP.BaseURL)
		return Bundle{
			Info:      r.Metadata,
			BaseURL:   "/",
			IndexPath: indexPath,
		}, nil
	case SourceKindLocalFS:
		return Bundle{
			Info:      r.Metadata,
			BaseURL:   "/",
			IndexPath: "/index",
		}, nil
	case SourceKindIndex:
		return Bundle{
			Info:      r.Metadata,
			BaseURL:   "/",
			IndexPath: r.Source.Index.Path,
		}, nil
	default:
		return Bundle{}, Errorf(EINVALID, "unknown source kind %q", r.Source.Kind)
	}
}

// SourceKind discriminates bundle source variants.
type SourceKind string

// Source kinds.
const (
	SourceKindLocalFS SourceKind = "localFS"
	SourceKindIndex   SourceKind = "index"
	SourceKindHTTP    SourceKind = "http"
)

// Source describes where a bundle's bytes come from. Exactly one of the
// variant fields matching Kind is set.
type Source struct {
	Kind SourceKind

	LocalFS *LocalFSSource
	Index   *IndexSource
	HTTP    *HTTPSource
}

// LocalFSSource serves bundle content from a local directory.
type LocalFSSource struct {
	// RootPath is the bundle's root directory.
	RootPath string `json:"rootURL"`
}

// IndexSource serves bundle content from a pre-built index location.
type IndexSource struct {
	Path string `json:"path"`
}

// HTTPSource serves bundle content from a remote documentation server.
type HTTPSource struct {
	BaseURL  string `json:"baseURL"`
	IndexURL string `json:"indexURL"`
}

// LocalFS creates a local filesystem source.
func LocalFS(rootPath string) Source {
	return Source{Kind: SourceKindLocalFS, LocalFS: &LocalFSSource{RootPath: rootPath}}
}

// Index creates a pre-built index source.
func Index(path string) Source {
	return Source{Kind: SourceKindIndex, Index: &IndexSource{Path: path}}
}

// HTTP creates an HTTP source.
func HTTP(baseURL, indexURL string) Source {
	return Source{Kind: SourceKindHTTP, HTTP: &HTTPSource{BaseURL: baseURL, IndexURL: indexURL}}
}

// sourceJSON is the persisted envelope for a Source: a kind discriminator
// plus a kind-specific config object.
type sourceJSON struct {
	Kind   SourceKind      `json:"kind"`
	Config json.RawMessage `json:"config"`
}

// MarshalJSON implements json.Marshaler.
func (s Source) MarshalJSON() ([]byte, error) {
	var config any
	switch s.Kind {
	case SourceKindLocalFS:
		config = s.LocalFS
	case SourceKindIndex:
		config = s.Index
	case SourceKindHTTP:
		config = s.HTTP
	default:
		return nil, Errorf(EINVALID, "unknown source kind %q", s.Kind)
	}

	raw, err := json.Marshal(config)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sourceJSON{Kind: s.Kind, Config: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Source) UnmarshalJSON(data []byte) error {
	var envelope sourceJSON
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	s.Kind = envelope.Kind
	switch envelope.Kind {
	case SourceKindLocalFS:
		s.LocalFS = &LocalFSSource{}
		return json.Unmarshal(envelope.Config, s.LocalFS)
	case SourceKindIndex:
		s.Index = &IndexSource{}
		return json.Unmarshal(envelope.Config, s.Index)
	case SourceKindHTTP:
		s.HTTP = &HTTPSource{}
		return json.Unmarshal(envelope.Config, s.HTTP)
	default:
		return Errorf(EINVALID, "unknown source kind %q", envelope.Kind)
	}
}

// ProjectStore persists projects.
type ProjectStore interface {
	// SaveProject persists a project. Only called for persistent projects.
	SaveProject(ctx context.Context, project *Project) error

	// LoadProject retrieves a project by identifier.
	// Returns ENOTFOUND if the project does not exist.
	LoadProject(ctx context.Context, identifier string) (*Project, error)
}
