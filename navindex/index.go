package navindex

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/getdocsy/docsee"
)

// ProgressFunc reports tree read progress. It is invoked with completed
// false zero or more times as nodes are decoded, then exactly once with
// completed true carrying the terminal result.
type ProgressFunc func(fraction float64, completed bool, err error)

// pathKey identifies a topic path within one interface language.
type pathKey struct {
	path     string
	language Language
}

// Index is a parsed navigator index: the path lookup tables, and, once
// read, the topic tree. An Index is owned exclusively by the navigator
// that opened it.
type Index struct {
	dir              string
	bundleIdentifier docsee.BundleIdentifier
	onNodeRead       func(*Node)
	treeOffset       int64

	mu        sync.RWMutex
	idForPath map[pathKey]uint32
	pathForID map[uint32]string
	root      *Node
	nodesByID map[uint32]*Node
}

// ReadIndex parses the navigator index at dir for the given bundle.
//
// With readTree false only the path table is decoded; the tree is
// populated later via ReadTree. With readTree true the tree is decoded
// before returning, honoring ctx's cancellation and deadline. The
// onNodeRead callback, if non-nil, is invoked for every tree node as it
// is decoded, before the node becomes reachable from the tree.
func ReadIndex(ctx context.Context, dir string, bundleIdentifier docsee.BundleIdentifier, readTree bool, onNodeRead func(*Node)) (*Index, error) {
	for _, name := range ArtifactFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, docsee.Errorf(docsee.ENOTFOUND, "index artifact %s missing at %s", name, dir)
			}
			return nil, fmt.Errorf("checking index artifact %s: %w", name, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("opening navigator index: %w", err)
	}
	defer f.Close()

	cr := &countingReader{r: f}

	var magic [4]byte
	if _, err := io.ReadFull(cr, magic[:]); err != nil {
		return nil, malformed(err)
	}
	if !bytes.Equal(magic[:], indexMagic[:]) {
		return nil, docsee.Errorf(docsee.EINVALID, "not a navigator index: bad magic %q", magic)
	}

	var version, flags uint16
	if err := binary.Read(cr, binary.BigEndian, &version); err != nil {
		return nil, malformed(err)
	}
	if version != formatVersion {
		return nil, docsee.Errorf(docsee.EINVALID, "unsupported navigator index version %d", version)
	}
	if err := binary.Read(cr, binary.BigEndian, &flags); err != nil {
		return nil, malformed(err)
	}

	identifier, err := readString(cr)
	if err != nil {
		return nil, malformed(err)
	}
	if bundleIdentifier != "" && identifier != bundleIdentifier {
		return nil, docsee.Errorf(docsee.EINVALID,
			"navigator index belongs to bundle %q, expected %q", identifier, bundleIdentifier)
	}

	idx := &Index{
		dir:              dir,
		bundleIdentifier: identifier,
		onNodeRead:       onNodeRead,
		idForPath:        map[pathKey]uint32{},
		pathForID:        map[uint32]string{},
	}

	var pathCount uint32
	if err := binary.Read(cr, binary.BigEndian, &pathCount); err != nil {
		return nil, malformed(err)
	}
	for i := uint32(0); i < pathCount; i++ {
		var id uint32
		var language uint8
		if err := binary.Read(cr, binary.BigEndian, &id); err != nil {
			return nil, malformed(err)
		}
		if err := binary.Read(cr, binary.BigEndian, &language); err != nil {
			return nil, malformed(err)
		}
		path, err := readString(cr)
		if err != nil {
			return nil, malformed(err)
		}
		idx.idForPath[pathKey{path: path, language: Language(language)}] = id
		idx.pathForID[id] = path
	}

	idx.treeOffset = cr.n

	if readTree {
		if err := idx.decodeTree(ctx, cr, nil); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// BundleIdentifier returns the identifier of the bundle this index
// describes.
func (idx *Index) BundleIdentifier() docsee.BundleIdentifier {
	return idx.bundleIdentifier
}

// ID resolves a (path, language) pair to its node identifier.
func (idx *Index) ID(path string, language Language) (uint32, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	id, ok := idx.idForPath[pathKey{path: path, language: language}]
	return id, ok
}

// Path resolves a node identifier to its topic path.
func (idx *Index) Path(id uint32) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	path, ok := idx.pathForID[id]
	return path, ok
}

// Root returns the tree's root node, or nil before the tree has been read.
func (idx *Index) Root() *Node {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.root
}

// Node returns the tree node with the given identifier.
func (idx *Index) Node(id uint32) (*Node, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	node, ok := idx.nodesByID[id]
	return node, ok
}

// TreeLoaded reports whether the topic tree has been read.
func (idx *Index) TreeLoaded() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.root != nil
}

// ReadTree decodes the topic tree, bounded by timeout. This is a
// single-shot operation: onProgress receives exactly one terminal
// invocation (completed true), mirroring the returned result. Reading an
// already-loaded tree completes immediately. Cancelling ctx or exceeding
// the timeout stops the underlying file read; a timeout surfaces as
// ETIMEOUT.
func (idx *Index) ReadTree(ctx context.Context, timeout time.Duration, onProgress ProgressFunc) error {
	if onProgress == nil {
		onProgress = func(float64, bool, error) {}
	}

	if idx.TreeLoaded() {
		onProgress(1, true, nil)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	f, err := os.Open(filepath.Join(idx.dir, IndexFile))
	if err != nil {
		err = fmt.Errorf("opening navigator index: %w", err)
		onProgress(0, true, err)
		return err
	}
	defer f.Close()

	if _, err := f.Seek(idx.treeOffset, io.SeekStart); err != nil {
		err = fmt.Errorf("seeking navigator tree: %w", err)
		onProgress(0, true, err)
		return err
	}

	if err := idx.decodeTree(ctx, bufio.NewReader(f), onProgress); err != nil {
		onProgress(0, true, err)
		return err
	}

	onProgress(1, true, nil)
	return nil
}

// decodeTree parses the tree section from r and links it into the index.
// The partially decoded tree never becomes visible: lookup maps are only
// swapped in after a complete, well-formed parse.
func (idx *Index) decodeTree(ctx context.Context, r io.Reader, onProgress ProgressFunc) error {
	var count, rootID uint32
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return malformed(err)
	}
	if err := binary.Read(r, binary.BigEndian, &rootID); err != nil {
		return malformed(err)
	}

	nodes := make(map[uint32]*Node, count)
	children := make(map[uint32][]uint32, count)
	order := make([]uint32, 0, count)

	for i := uint32(0); i < count; i++ {
		if err := ctx.Err(); err != nil {
			return treeReadErr(err)
		}

		node := &Node{}
		var pageType, language uint8
		if err := binary.Read(r, binary.BigEndian, &node.ID); err != nil {
			return malformed(err)
		}
		if err := binary.Read(r, binary.BigEndian, &pageType); err != nil {
			return malformed(err)
		}
		if err := binary.Read(r, binary.BigEndian, &language); err != nil {
			return malformed(err)
		}
		node.Type = PageType(pageType)
		node.Language = Language(language)

		title, err := readString(r)
		if err != nil {
			return malformed(err)
		}
		node.Title = title

		var childCount uint16
		if err := binary.Read(r, binary.BigEndian, &childCount); err != nil {
			return malformed(err)
		}
		childIDs := make([]uint32, childCount)
		for j := range childIDs {
			if err := binary.Read(r, binary.BigEndian, &childIDs[j]); err != nil {
				return malformed(err)
			}
		}

		if idx.onNodeRead != nil {
			idx.onNodeRead(node)
		}

		nodes[node.ID] = node
		children[node.ID] = childIDs
		order = append(order, node.ID)

		if onProgress != nil {
			onProgress(float64(i+1)/float64(count), false, nil)
		}
	}

	for _, id := range order {
		node := nodes[id]
		for _, childID := range children[id] {
			child, ok := nodes[childID]
			if !ok {
				return docsee.Errorf(docsee.EINVALID,
					"navigator tree node %d references unknown child %d", id, childID)
			}
			node.Children = append(node.Children, child)
		}
	}

	root, ok := nodes[rootID]
	if !ok {
		return docsee.Errorf(docsee.EINVALID, "navigator tree missing root node %d", rootID)
	}

	idx.mu.Lock()
	idx.root = root
	idx.nodesByID = nodes
	idx.mu.Unlock()

	return nil
}

// treeReadErr maps context errors onto the read contract: a deadline is a
// timeout, everything else passes through.
func treeReadErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return docsee.Errorf(docsee.ETIMEOUT, "navigator tree read timed out")
	}
	return err
}

// malformed wraps low-level decode failures as invalid-index errors.
func malformed(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return docsee.Errorf(docsee.EINVALID, "truncated navigator index")
	}
	return fmt.Errorf("decoding navigator index: %w", err)
}

// countingReader tracks how many bytes have been consumed so the tree
// section's offset can be recorded during a shallow open.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
