// Package agents defines the contract between the reporting pipeline and the
// agent population owned by the host simulation. The pipeline only ever
// reads: it resolves a collection by entity type and fetches named attribute
// arrays from it. Any value crossing this boundary into the pipeline's
// buffers is copied first; the population may reuse the same memory on the
// next step.
package agents

import "fmt"

// #region contracts

// Population resolves entity types to collections.
type Population interface {
	// Collection returns the collection for an entity type, or an
	// *AttributeError when no such type exists.
	Collection(entityType string) (Collection, error)
}

// Collection is one collection of simulated entities. Attribute arrays are
// parallel to IDs(): element i belongs to entity IDs()[i].
type Collection interface {
	// IDs returns the entity id list. The slice is owned by the collection.
	IDs() []string
	// Attribute fetches a named attribute array. Supported shapes are
	// []float64, [][]float64 (one row per entity) and []int (group scales).
	// The returned value is owned by the collection.
	Attribute(name string) (any, error)
}

// #endregion contracts

// #region attribute-error

// AttributeError reports a directive/population mismatch: a missing entity
// type or a missing attribute on a resolved collection.
type AttributeError struct {
	EntityType string
	VarName    string
}

func (e *AttributeError) Error() string {
	if e.VarName == "" {
		return fmt.Sprintf("no agent collection %q in population", e.EntityType)
	}
	return fmt.Sprintf("trying to export %q, but no such attribute exists for agent type %q", e.VarName, e.EntityType)
}

// #endregion attribute-error
