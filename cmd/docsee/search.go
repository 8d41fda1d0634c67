package main

import (
	"fmt"

	"github.com/getdocsy/docsee"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	repo, err := openRepository(deps, c.Project)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}
	defer repo.Close()

	query := docsee.BundleQuery{}
	if c.Term != "" {
		query.Term = &c.Term
	}

	results, err := repo.Search(deps.Ctx, query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No bundles found.")
		return nil
	}

	for _, detail := range results {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", detail.Metadata.BundleIdentifier, detail.Metadata.DisplayName)
		for _, rev := range detail.Revisions {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", rev.Tag, rev.Source)
		}
	}

	return nil
}
