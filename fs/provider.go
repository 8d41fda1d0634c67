// Package fs provides filesystem-backed bundle providers and project
// persistence.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getdocsy/docsee"
)

// Ensure Provider implements docsee.BundleProvider at compile time.
var _ docsee.BundleProvider = (*Provider)(nil)

// Provider serves bundle resources from a directory on disk.
type Provider struct {
	root string
}

// NewProvider creates a Provider rooted at dir.
func NewProvider(dir string) *Provider {
	return &Provider{root: dir}
}

// Data reads the bytes at a root-relative path. Paths that escape the root
// are rejected.
func (p *Provider) Data(ctx context.Context, path string) ([]byte, error) {
	full, err := p.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, docsee.Errorf(docsee.ENOTFOUND, "resource %q not found", path)
		}
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return data, nil
}

// resolve joins path onto the root and verifies the result stays inside it.
func (p *Provider) resolve(path string) (string, error) {
	full := filepath.Join(p.root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
	rel, err := filepath.Rel(p.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", docsee.Errorf(docsee.EINVALID, "path %q escapes the provider root", path)
	}
	return full, nil
}
