package docsee

// BundleIdentifier uniquely identifies a documentation bundle within a
// workspace. Identifiers are reverse-DNS style strings (e.g.
// "app.getdocsy.documentationkit") and are the stable key used across
// persistence.
type BundleIdentifier = string

// BundleInfo holds information about a documentation bundle that is
// unrelated to its documentation content.
type BundleInfo struct {
	// DisplayName is the bundle's human-readable name.
	DisplayName string `json:"displayName"`

	// Identifier is the documentation bundle identifier.
	Identifier BundleIdentifier `json:"identifier"`
}

// Bundle represents a documentation archive with metadata, content, and a
// navigator index. A Bundle is an immutable value once constructed; it is
// not persisted directly but reconstructed from a project reference at load
// time.
type Bundle struct {
	// Info holds the bundle's metadata.
	Info BundleInfo

	// BaseURL is a prefix prepended to relative presentation paths.
	// Defaults to "/".
	BaseURL string

	// IndexPath is the bundle-relative path of the navigator index
	// directory.
	IndexPath string

	// ThemeSettingsPath is the optional bundle-relative path of a JSON
	// settings file used to theme renderer output. Empty when the bundle
	// has no theme settings.
	ThemeSettingsPath string
}

// Identifier returns the bundle's identifier.
func (b Bundle) Identifier() BundleIdentifier {
	return b.Info.Identifier
}

// DisplayName returns the bundle's human-readable name.
func (b Bundle) DisplayName() string {
	return b.Info.DisplayName
}

// Validate returns an error if the bundle contains invalid fields.
func (b Bundle) Validate() error {
	if b.Info.Identifier == "" {
		return Errorf(EINVALID, "bundle identifier required")
	}
	if b.Info.DisplayName == "" {
		return Errorf(EINVALID, "bundle display name required")
	}
	return nil
}
