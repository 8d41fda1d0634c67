package main

import (
	"fmt"
	"sort"

	"github.com/getdocsy/docsee"
)

// Run executes the bundles command.
func (c *BundlesCmd) Run(deps *Dependencies) error {
	if _, err := openSession(deps, c.Project); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	bundles := deps.Workspace.Store().Bundles()
	if len(bundles) == 0 {
		fmt.Fprintln(deps.Stdout, "No bundles registered.")
		return nil
	}

	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].DisplayName() < bundles[j].DisplayName()
	})
	for _, bundle := range bundles {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", bundle.Identifier(), bundle.DisplayName())
	}

	return nil
}
