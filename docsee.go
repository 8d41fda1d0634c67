// Package docsee provides the navigator index and workspace composition
// engine for a documentation bundle browser. It ingests documentation
// bundles from heterogeneous sources (local filesystem, HTTP, remote index
// server), composes their navigator indices into a single addressable
// topic space, and keeps the workspace's sub-components consistent as
// projects are opened, bundles are added, and projects are saved.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/) or the domain
// concern they implement (e.g., navigator/, workspace/).
package docsee
