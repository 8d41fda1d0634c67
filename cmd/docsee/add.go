package main

import (
	"fmt"
	"strings"

	"github.com/getdocsy/docsee"
	"github.com/getdocsy/docsee/fs"
	docseehttp "github.com/getdocsy/docsee/http"
	docslog "github.com/getdocsy/docsee/slog"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	project, err := openSession(deps, c.Project)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	info := docsee.BundleInfo{DisplayName: c.DisplayName, Identifier: c.Identifier}
	bundle := docsee.Bundle{Info: info, BaseURL: "/", IndexPath: "/index"}

	var source docsee.Source
	var provider docsee.BundleProvider
	if strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://") {
		base := strings.TrimSuffix(c.Source, "/")
		source = docsee.HTTP(base, base+"/index")
		provider = docseehttp.NewProvider(base)
	} else {
		source = docsee.LocalFS(c.Source)
		provider = fs.NewProvider(c.Source)
	}
	project.References[c.Identifier] = docsee.Reference{Source: source, Metadata: info}

	if err := deps.Workspace.AddBundle(deps.Ctx, bundle, docslog.NewLoggingProvider(provider, deps.Logger)); err != nil {
		delete(project.References, c.Identifier)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	if err := deps.Workspace.Save(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsee.ErrorMessage(err))
		return err
	}

	// Record the bundle in the project's search index.
	repo, err := openRepository(deps, c.Project)
	if err != nil {
		return err
	}
	defer repo.Close()

	detail, err := repo.AddBundle(deps.Ctx, c.DisplayName, c.Identifier)
	if docsee.ErrorCode(err) == docsee.ECONFLICT {
		fmt.Fprintln(deps.Stdout, "Bundle already indexed.")
		return nil
	}
	if err != nil {
		return err
	}
	if c.Tag != "" {
		if _, err := repo.AddRevision(deps.Ctx, c.Tag, c.Source, detail.Metadata.ID); err != nil {
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Added %s (%s)\n", c.DisplayName, c.Identifier)
	return nil
}
