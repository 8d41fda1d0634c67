// Package navigator composes the navigator indices of every bundle in a
// project into one addressable structure with a stable top-level ordering.
package navigator

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/getdocsy/docsee"
	"github.com/getdocsy/docsee/fs"
	"github.com/getdocsy/docsee/navindex"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Ensure Navigator implements docsee.Plugin at compile time.
var _ docsee.Plugin = (*Navigator)(nil)

// DefaultTreeTimeout bounds how long a single index tree read may take.
const DefaultTreeTimeout = 5 * time.Second

// State describes how far a top-level node has progressed through loading.
type State uint8

// Top-level node states.
const (
	StatePending State = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TopLevelNode is one entry in the navigator's top-level list: a bundle
// whose index is being composed in, or a display-only group marker.
type TopLevelNode struct {
	kind             docsee.NodeKind
	displayName      string
	bundleIdentifier docsee.BundleIdentifier
	id               uint32

	mu    sync.Mutex
	state State
	err   error
}

// Kind returns the node's kind.
func (n *TopLevelNode) Kind() docsee.NodeKind { return n.kind }

// DisplayName returns the node's display name.
func (n *TopLevelNode) DisplayName() string { return n.displayName }

// BundleIdentifier returns the referenced bundle's identifier. Empty for
// group markers.
func (n *TopLevelNode) BundleIdentifier() docsee.BundleIdentifier { return n.bundleIdentifier }

// ID returns the node's top-level identifier. Zero for group markers.
func (n *TopLevelNode) ID() uint32 { return n.id }

// State returns the node's load state.
func (n *TopLevelNode) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Err returns the failure that moved the node to StateFailed, if any.
func (n *TopLevelNode) Err() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.err
}

func (n *TopLevelNode) setState(state State, err error) {
	n.mu.Lock()
	n.state = state
	n.err = err
	n.mu.Unlock()
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithTreeTimeout overrides the per-index tree read timeout.
func WithTreeTimeout(d time.Duration) Option {
	return func(n *Navigator) { n.timeout = d }
}

// WithAllocator overrides the top-level identifier allocator.
func WithAllocator(a *Allocator) Option {
	return func(n *Navigator) { n.alloc = a }
}

// Navigator owns the indices it opens and the composed top-level list.
// It implements the workspace plugin protocol: Load rebuilds everything
// for a new project, DidAddBundle absorbs one new bundle, and WillSave
// writes the composed ordering back into the project.
type Navigator struct {
	logger  *slog.Logger
	timeout time.Duration
	alloc   *Allocator
	group   singleflight.Group

	mu                sync.Mutex
	generation        uint64
	cancel            context.CancelFunc
	project           *docsee.Project
	nodes             []*TopLevelNode
	indices           map[uint32]*navindex.Index
	indexByLocation   map[string]*navindex.Index
	topLevelForBundle map[docsee.BundleIdentifier]uint32
	bundleForTopLevel map[uint32]docsee.BundleIdentifier
	selection         *docsee.DocumentationURI
}

// New creates a Navigator logging through logger.
func New(logger *slog.Logger, opts ...Option) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Navigator{
		logger:            logger,
		timeout:           DefaultTreeTimeout,
		alloc:             NewAllocator(1),
		indices:           map[uint32]*navindex.Index{},
		indexByLocation:   map[string]*navindex.Index{},
		topLevelForBundle: map[docsee.BundleIdentifier]uint32{},
		bundleForTopLevel: map[uint32]docsee.BundleIdentifier{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Load rebuilds the navigator for a new project. All previous state is
// discarded and in-flight tree reads from the previous project are
// cancelled; their completions can no longer mutate the navigator.
//
// The top-level list mirrors project.Items verbatim and is published
// before this method returns; tree reads continue in the background and
// flip each bundle node to StateReady or StateFailed independently.
func (n *Navigator) Load(ctx context.Context, project *docsee.Project, dctx docsee.DocumentationContext) error {
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
	}
	n.generation++
	gen := n.generation
	loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	n.cancel = cancel
	n.project = project
	n.nodes = nil
	n.indices = map[uint32]*navindex.Index{}
	n.indexByLocation = map[string]*navindex.Index{}
	n.topLevelForBundle = map[docsee.BundleIdentifier]uint32{}
	n.bundleForTopLevel = map[uint32]docsee.BundleIdentifier{}
	n.selection = nil
	n.mu.Unlock()

	type loadJob struct {
		node   *TopLevelNode
		ref    docsee.Reference
		bundle docsee.Bundle
	}

	var nodes []*TopLevelNode
	var jobs []loadJob
	for _, item := range project.Items {
		switch item.Kind {
		case docsee.NodeKindGroupMarker:
			nodes = append(nodes, &TopLevelNode{
				kind:        docsee.NodeKindGroupMarker,
				displayName: item.DisplayName,
				state:       StateReady,
			})

		case docsee.NodeKindBundle:
			bundle, ok := dctx.Bundle(ctx, item.BundleIdentifier)
			if !ok {
				return docsee.Errorf(docsee.EPRECONDITION, "bundle %q is not registered", item.BundleIdentifier)
			}
			ref, ok := project.References[item.BundleIdentifier]
			if !ok {
				return docsee.Errorf(docsee.EPRECONDITION, "project has no reference for bundle %q", item.BundleIdentifier)
			}
			id, err := n.alloc.Next()
			if err != nil {
				return err
			}
			node := &TopLevelNode{
				kind:             docsee.NodeKindBundle,
				displayName:      item.DisplayName,
				bundleIdentifier: item.BundleIdentifier,
				id:               id,
				state:            StatePending,
			}
			nodes = append(nodes, node)
			jobs = append(jobs, loadJob{node: node, ref: ref, bundle: bundle})

		default:
			return docsee.Errorf(docsee.EINVALID, "unknown project node kind %q", item.Kind)
		}
	}

	n.mu.Lock()
	if n.generation != gen {
		n.mu.Unlock()
		return nil
	}
	n.nodes = nodes
	for _, job := range jobs {
		n.topLevelForBundle[job.node.bundleIdentifier] = job.node.id
		n.bundleForTopLevel[job.node.id] = job.node.bundleIdentifier
	}
	n.mu.Unlock()

	for _, job := range jobs {
		job := job
		go n.loadBundle(loadCtx, gen, job.node, job.ref, job.bundle, dctx)
	}

	n.logger.Debug("navigator loaded project",
		"project", project.Identifier,
		"nodes", len(nodes),
		"bundles", len(jobs))
	return nil
}

// loadBundle opens one bundle's index and reads its tree, then flips the
// node's state. A bundle failure touches only its own node.
func (n *Navigator) loadBundle(ctx context.Context, gen uint64, node *TopLevelNode, ref docsee.Reference, bundle docsee.Bundle, dctx docsee.DocumentationContext) {
	node.setState(StateLoading, nil)

	idx, loc, err := n.openIndex(ctx, gen, node.id, ref, bundle, dctx)
	if err != nil {
		n.finish(gen, node, err)
		return
	}

	n.mu.Lock()
	if n.generation == gen {
		n.indices[node.id] = idx
	}
	n.mu.Unlock()

	// Project items resolving to the same index directory share one
	// index instance, so keying by location makes concurrent tree reads
	// of the same file collapse into a single decode.
	_, err, _ = n.group.Do("tree/"+loc, func() (interface{}, error) {
		return nil, idx.ReadTree(ctx, n.timeout, nil)
	})
	n.finish(gen, node, err)
}

// finish records a load result unless a newer Load superseded it.
func (n *Navigator) finish(gen uint64, node *TopLevelNode, err error) {
	n.mu.Lock()
	stale := n.generation != gen
	n.mu.Unlock()
	if stale {
		n.logger.Debug("discarding superseded index load", "bundle", node.bundleIdentifier)
		return
	}

	if err != nil {
		node.setState(StateFailed, err)
		n.logger.Warn("index load failed", "bundle", node.bundleIdentifier, "error", err)
		return
	}
	node.setState(StateReady, nil)
	n.logger.Debug("index ready", "bundle", node.bundleIdentifier, "topLevelID", node.id)
}

// openIndex resolves a bundle reference to an index on disk. Local
// sources are opened shallow, leaving the tree to ReadTree; remote
// sources are fetched into a transient cache and decoded eagerly so the
// cache can be removed before returning. The returned location key
// identifies the index's backing storage.
func (n *Navigator) openIndex(ctx context.Context, gen uint64, topLevelID uint32, ref docsee.Reference, bundle docsee.Bundle, dctx docsee.DocumentationContext) (*navindex.Index, string, error) {
	stamp := func(node *navindex.Node) { node.TopLevelID = topLevelID }

	switch ref.Source.Kind {
	case docsee.SourceKindLocalFS:
		dir := filepath.Join(ref.Source.LocalFS.RootPath, filepath.FromSlash(strings.TrimPrefix(bundle.IndexPath, "/")))
		idx, err := n.sharedIndex(ctx, gen, dir, bundle.Identifier(), stamp)
		return idx, dir, err

	case docsee.SourceKindIndex:
		idx, err := n.sharedIndex(ctx, gen, ref.Source.Index.Path, bundle.Identifier(), stamp)
		return idx, ref.Source.Index.Path, err

	case docsee.SourceKindHTTP:
		idx, err := n.fetchIndex(ctx, bundle, dctx, stamp)
		return idx, fmt.Sprintf("fetch/%d", topLevelID), err

	default:
		return nil, "", docsee.Errorf(docsee.EINVALID, "unknown source kind %q", ref.Source.Kind)
	}
}

// sharedIndex opens the index at dir, reusing an instance another
// project item already opened for the same directory and bundle. A
// shared instance carries the first opener's node stamp; composite
// lookups resolve through the top-level maps and are unaffected.
func (n *Navigator) sharedIndex(ctx context.Context, gen uint64, dir string, identifier docsee.BundleIdentifier, stamp func(*navindex.Node)) (*navindex.Index, error) {
	n.mu.Lock()
	idx, ok := n.indexByLocation[dir]
	n.mu.Unlock()
	if ok && idx.BundleIdentifier() == identifier {
		return idx, nil
	}

	idx, err := navindex.ReadIndex(ctx, dir, identifier, false, stamp)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.generation != gen {
		return idx, nil
	}
	if existing, ok := n.indexByLocation[dir]; ok && existing.BundleIdentifier() == identifier {
		return existing, nil
	}
	n.indexByLocation[dir] = idx
	return idx, nil
}

// fetchIndex downloads the three index artifacts concurrently into a
// fresh cache, all-or-nothing, reads the index eagerly from it, and
// removes the cache before returning.
func (n *Navigator) fetchIndex(ctx context.Context, bundle docsee.Bundle, dctx docsee.DocumentationContext, stamp func(*navindex.Node)) (*navindex.Index, error) {
	cache, err := fs.NewCachedResource()
	if err != nil {
		return nil, err
	}
	defer cache.Remove()

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range navindex.ArtifactFiles {
		name := name
		g.Go(func() error {
			uri := docsee.NewDocumentationURI(bundle.Identifier(), path.Join(bundle.IndexPath, name))
			data, err := dctx.ContentsOfURL(gctx, uri)
			if err != nil {
				return fmt.Errorf("fetching index artifact %s: %w", name, err)
			}
			return cache.Put(name, data)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The eager decode runs under the same bound ReadTree enforces.
	rctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()
	return navindex.ReadIndex(rctx, cache.Dir(), bundle.Identifier(), true, stamp)
}

// DidAddBundle composes one newly registered bundle in, prepending its
// node to the top-level list. The index is read eagerly so the node is
// ready when this returns; any failure leaves the navigator unchanged.
func (n *Navigator) DidAddBundle(ctx context.Context, identifier docsee.BundleIdentifier, dctx docsee.DocumentationContext) error {
	bundle, ok := dctx.Bundle(ctx, identifier)
	if !ok {
		return docsee.Errorf(docsee.EPRECONDITION, "bundle %q is not registered", identifier)
	}

	id, err := n.alloc.Next()
	if err != nil {
		return err
	}
	stamp := func(node *navindex.Node) { node.TopLevelID = id }

	n.mu.Lock()
	var ref docsee.Reference
	var hasRef bool
	if n.project != nil {
		ref, hasRef = n.project.References[identifier]
	}
	gen := n.generation
	n.mu.Unlock()

	var idx *navindex.Index
	if hasRef && ref.Source.Kind != docsee.SourceKindHTTP {
		idx, _, err = n.openIndex(ctx, gen, id, ref, bundle, dctx)
		if err == nil {
			err = idx.ReadTree(ctx, n.timeout, nil)
		}
	} else {
		idx, err = n.fetchIndex(ctx, bundle, dctx, stamp)
	}
	if err != nil {
		return fmt.Errorf("composing bundle %q: %w", identifier, err)
	}

	node := &TopLevelNode{
		kind:             docsee.NodeKindBundle,
		displayName:      bundle.DisplayName(),
		bundleIdentifier: identifier,
		id:               id,
		state:            StateReady,
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.generation != gen {
		return docsee.Errorf(docsee.EPRECONDITION, "navigator was reloaded while adding bundle %q", identifier)
	}
	n.indices[id] = idx
	n.topLevelForBundle[identifier] = id
	n.bundleForTopLevel[id] = identifier
	n.nodes = append([]*TopLevelNode{node}, n.nodes...)

	n.logger.Debug("bundle composed", "bundle", identifier, "topLevelID", id)
	return nil
}

// WillSave rebuilds the project's top-level items from the navigator's
// live ordering. Bundle nodes persist the resolved root topic title when
// the tree has been read.
func (n *Navigator) WillSave(ctx context.Context, project *docsee.Project) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	items := make([]docsee.Node, 0, len(n.nodes))
	for _, node := range n.nodes {
		if node.kind == docsee.NodeKindGroupMarker {
			items = append(items, docsee.GroupMarkerNode(node.displayName))
			continue
		}

		if _, ok := project.References[node.bundleIdentifier]; !ok {
			return docsee.Errorf(docsee.EPRECONDITION, "project has no reference for bundle %q", node.bundleIdentifier)
		}
		idx, ok := n.indices[node.id]
		if !ok {
			return docsee.Errorf(docsee.EPRECONDITION, "bundle %q has no loaded index", node.bundleIdentifier)
		}

		displayName := node.displayName
		if root := idx.Root(); root != nil && root.Title != "" {
			displayName = root.Title
		}
		items = append(items, docsee.BundleNode(displayName, node.bundleIdentifier))
	}

	project.Items = items
	return nil
}

// Nodes returns the top-level list in display order.
func (n *Navigator) Nodes() []*TopLevelNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	nodes := make([]*TopLevelNode, len(n.nodes))
	copy(nodes, n.nodes)
	return nodes
}

// Path resolves a composite identifier to its topic path.
func (n *Navigator) Path(id CompositeID) (string, bool) {
	n.mu.Lock()
	idx, ok := n.indices[id.TopLevelID()]
	n.mu.Unlock()
	if !ok {
		n.logger.Debug("no index for composite id", "id", id.String())
		return "", false
	}

	path, ok := idx.Path(id.NodeID())
	if !ok {
		n.logger.Debug("no path for composite id", "id", id.String())
	}
	return path, ok
}

// TopicURI resolves a composite identifier to a documentation URI.
func (n *Navigator) TopicURI(id CompositeID) (docsee.DocumentationURI, bool) {
	n.mu.Lock()
	bundleID, ok := n.bundleForTopLevel[id.TopLevelID()]
	n.mu.Unlock()
	if !ok {
		n.logger.Debug("no bundle for composite id", "id", id.String())
		return docsee.DocumentationURI{}, false
	}

	path, ok := n.Path(id)
	if !ok {
		return docsee.DocumentationURI{}, false
	}
	return docsee.NewDocumentationURI(bundleID, path), true
}

// CompositeIDFor resolves a (path, language) pair within a bundle to its
// composite identifier.
func (n *Navigator) CompositeIDFor(topicPath string, language navindex.Language, bundleID docsee.BundleIdentifier) (CompositeID, bool) {
	n.mu.Lock()
	topLevelID, ok := n.topLevelForBundle[bundleID]
	var idx *navindex.Index
	if ok {
		idx, ok = n.indices[topLevelID]
	}
	n.mu.Unlock()
	if !ok {
		n.logger.Debug("no index for bundle", "bundle", bundleID)
		return 0, false
	}

	nodeID, ok := idx.ID(topicPath, language)
	if !ok {
		n.logger.Debug("no node for path", "bundle", bundleID, "path", topicPath)
		return 0, false
	}
	return NewCompositeID(topLevelID, nodeID), true
}

// Navigate updates the current selection. The target must resolve to a
// topic in a loaded index; otherwise the selection is left untouched.
// Navigating to the already selected topic is a no-op.
func (n *Navigator) Navigate(ctx context.Context, uri docsee.DocumentationURI) {
	if _, ok := n.CompositeIDFor(uri.Path, navindex.LanguageSwift, uri.BundleIdentifier); !ok {
		n.logger.Debug("ignoring navigation to unknown topic", "uri", uri.String())
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.selection != nil &&
		n.selection.BundleIdentifier == uri.BundleIdentifier &&
		effectivePath(n.selection.Path) == effectivePath(uri.Path) {
		n.logger.Debug("already selected", "uri", uri.String())
		return
	}

	n.selection = &uri
	n.logger.Debug("selection changed", "uri", uri.String())
}

// Selection returns the currently selected topic, if any.
func (n *Navigator) Selection() (docsee.DocumentationURI, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.selection == nil {
		return docsee.DocumentationURI{}, false
	}
	return *n.selection, true
}

// effectivePath normalizes a topic path for selection comparison.
func effectivePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimSuffix(strings.ToLower(p), "/")
	if p == "" {
		return "/"
	}
	return p
}
