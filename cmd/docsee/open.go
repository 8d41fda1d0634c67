package main

import (
	"fmt"

	"github.com/getdocsy/docsee"
)

// Run executes the open command.
func (c *OpenCmd) Run(deps *Dependencies) error {
	project, err := openSession(deps, c.Project)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s (%s)\n", project.DisplayName, project.Identifier)
	for _, node := range deps.Navigator.Nodes() {
		if node.Kind() == docsee.NodeKindGroupMarker {
			fmt.Fprintf(deps.Stdout, "-- %s --\n", node.DisplayName())
			continue
		}
		fmt.Fprintf(deps.Stdout, "%-8s %s  %s\n", node.State(), node.DisplayName(), node.BundleIdentifier())
		if err := node.Err(); err != nil {
			fmt.Fprintf(deps.Stdout, "         %s\n", docsee.ErrorMessage(err))
		}
	}

	return nil
}
