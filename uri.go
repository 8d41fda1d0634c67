package docsee

import (
	"fmt"
	"net/url"
	"strings"
)

// URIScheme is the URL scheme used for documentation topic references.
const URIScheme = "doc"

// DocumentationURI is a structured reference to a resource inside a
// documentation bundle. It round-trips to and from generic URI strings of
// the form "doc://<bundleIdentifier>/<path>".
type DocumentationURI struct {
	// BundleIdentifier is the identifier of the containing bundle.
	BundleIdentifier BundleIdentifier

	// Path is the bundle-relative resource path. Always begins with "/"
	// except for the empty root path.
	Path string
}

// NewDocumentationURI creates a DocumentationURI for a path inside a bundle.
// The path is normalized to begin with "/" unless it is empty.
func NewDocumentationURI(bundleIdentifier BundleIdentifier, path string) DocumentationURI {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return DocumentationURI{
		BundleIdentifier: bundleIdentifier,
		Path:             path,
	}
}

// ParseDocumentationURI parses a "doc://" URI string.
func ParseDocumentationURI(rawURL string) (DocumentationURI, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return DocumentationURI{}, Errorf(EINVALID, "invalid documentation URI %q: %v", rawURL, err)
	}
	if u.Scheme != URIScheme {
		return DocumentationURI{}, Errorf(EINVALID, "invalid documentation URI scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return DocumentationURI{}, Errorf(EINVALID, "documentation URI %q missing bundle identifier", rawURL)
	}
	return DocumentationURI{
		BundleIdentifier: u.Host,
		Path:             u.Path,
	}, nil
}

// String returns the generic URI string form.
func (u DocumentationURI) String() string {
	return fmt.Sprintf("%s://%s%s", URIScheme, u.BundleIdentifier, u.Path)
}

// Validate returns an error if the URI contains invalid fields.
func (u DocumentationURI) Validate() error {
	if u.BundleIdentifier == "" {
		return Errorf(EINVALID, "documentation URI bundle identifier required")
	}
	return nil
}
