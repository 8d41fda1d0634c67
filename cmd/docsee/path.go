package main

import (
	"fmt"

	"github.com/getdocsy/docsee"
	"github.com/getdocsy/docsee/navindex"
)

// Run executes the path command.
func (c *PathCmd) Run(deps *Dependencies) error {
	if _, err := openSession(deps, c.Project); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	uri, err := docsee.ParseDocumentationURI(c.URI)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	id, ok := deps.Navigator.CompositeIDFor(uri.Path, navindex.LanguageSwift, uri.BundleIdentifier)
	if !ok {
		fmt.Fprintf(deps.Stderr, "error: no topic found for %s\n", c.URI)
		return docsee.Errorf(docsee.ENOTFOUND, "no topic found for %q", c.URI)
	}

	path, ok := deps.Navigator.Path(id)
	if !ok {
		fmt.Fprintf(deps.Stderr, "error: no path for node %s\n", id)
		return docsee.Errorf(docsee.ENOTFOUND, "no path for node %s", id)
	}

	fmt.Fprintf(deps.Stdout, "%s\t%s\n", id, path)
	return nil
}
