package main

import (
	"fmt"

	"github.com/getdocsy/docsee"
)

// Run executes the complete command.
func (c *CompleteCmd) Run(deps *Dependencies) error {
	repo, err := openRepository(deps, c.Project)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}
	defer repo.Close()

	terms, err := repo.SearchCompletions(deps.Ctx, c.Prefix, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	for _, term := range terms {
		fmt.Fprintln(deps.Stdout, term)
	}

	return nil
}
