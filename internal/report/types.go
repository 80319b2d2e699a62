// Package report drives the extraction → reduction → validation → buffering
// → export pipeline once per simulation step, and flushes buffered series as
// tables at end of run.
package report

import (
	"time"

	"simreport/internal/agents"
	"simreport/internal/catalog"
)

// #region model

// Model is the reporter's view of the host simulation. The simulation owns
// time; the reporter only records it.
type Model interface {
	// CurrentTime returns the current simulation time.
	CurrentTime() time.Time
	// Agents returns the agent population, or nil when the population has
	// not been created yet.
	Agents() agents.Population
}

// #endregion model

// #region options

// Options configures optional reporter collaborators.
type Options struct {
	// Subfolder namespaces the export tree under root/Subfolder. Callers
	// sharing one root across runs pick distinct subfolders.
	Subfolder string
	// Catalog, when set, records the run and every exported file.
	Catalog *catalog.Catalog
}

// #endregion options

// #region key

// key is the effective store key of one reported value: the directive name,
// plus the entity id for split directives.
type key struct {
	name  string
	id    string
	split bool
}

// #endregion key
