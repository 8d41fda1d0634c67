package navindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/getdocsy/docsee"
)

// Binary layout of the navigator index file, all integers big-endian:
//
//	magic "DNIX", version uint16, flags uint16
//	bundle identifier (uint16 length-prefixed string)
//	path table:  count uint32, then per entry
//	             id uint32, language uint8, path string
//	tree:        count uint32, root id uint32, then per node in
//	             breadth-first order: id uint32, type uint8, language uint8,
//	             title string, child count uint16, child ids uint32...
var indexMagic = [4]byte{'D', 'N', 'I', 'X'}

const formatVersion uint16 = 1

// maxStringLen bounds length-prefixed strings to keep malformed files from
// forcing huge allocations.
const maxStringLen = 1 << 16

// WriteIndex serializes a topic tree and its path table into dir, creating
// all three index artifacts. Used by tooling and tests to produce bundle
// fixtures.
func WriteIndex(dir string, bundleIdentifier string, root *Node, paths []PathEntry) error {
	if root == nil {
		return docsee.Errorf(docsee.EINVALID, "navigator index requires a root node")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, IndexFile))
	if err != nil {
		return fmt.Errorf("creating navigator index: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if _, err := w.Write(indexMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(0)); err != nil {
		return err
	}
	if err := writeString(w, bundleIdentifier); err != nil {
		return err
	}

	if err := binary.Write(w, binary.BigEndian, uint32(len(paths))); err != nil {
		return err
	}
	for _, entry := range paths {
		if err := binary.Write(w, binary.BigEndian, entry.ID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, uint8(entry.Language)); err != nil {
			return err
		}
		if err := writeString(w, entry.Path); err != nil {
			return err
		}
	}

	flat := flatten(root)
	if err := binary.Write(w, binary.BigEndian, uint32(len(flat))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, root.ID); err != nil {
		return err
	}
	for _, node := range flat {
		if err := writeNode(w, node); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing navigator index: %w", err)
	}

	// The companion blobs carry rendered record data and availability
	// information. Their content is opaque to the navigator; only their
	// presence is required for an index location to be complete.
	for _, name := range []string{DataFile, AvailabilityFile} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			return fmt.Errorf("creating index artifact %s: %w", name, err)
		}
	}

	return nil
}

func writeNode(w io.Writer, node *Node) error {
	if err := binary.Write(w, binary.BigEndian, node.ID); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint8(node.Type)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint8(node.Language)); err != nil {
		return err
	}
	if err := writeString(w, node.Title); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(node.Children))); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := binary.Write(w, binary.BigEndian, child.ID); err != nil {
			return err
		}
	}
	return nil
}

// flatten returns the tree's nodes in breadth-first order, root first.
func flatten(root *Node) []*Node {
	nodes := []*Node{root}
	for i := 0; i < len(nodes); i++ {
		nodes = append(nodes, nodes[i].Children...)
	}
	return nodes
}

func writeString(w io.Writer, s string) error {
	if len(s) >= maxStringLen {
		return docsee.Errorf(docsee.EINVALID, "string exceeds index format limit: %d bytes", len(s))
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
