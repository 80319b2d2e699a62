package agents

// #region memory-population

// Memory is an in-memory Population used by fixtures, the demo driver, and
// tests. Attributes are plain settable arrays.
type Memory struct {
	collections map[string]*MemoryCollection
}

// NewMemory creates an empty population.
func NewMemory() *Memory {
	return &Memory{collections: map[string]*MemoryCollection{}}
}

// AddCollection registers a collection with the given entity ids and returns
// it for attribute population.
func (m *Memory) AddCollection(entityType string, ids []string) *MemoryCollection {
	c := &MemoryCollection{
		entityType: entityType,
		ids:        ids,
		attrs:      map[string]any{},
	}
	m.collections[entityType] = c
	return c
}

// Collection implements Population.
func (m *Memory) Collection(entityType string) (Collection, error) {
	c, ok := m.collections[entityType]
	if !ok {
		return nil, &AttributeError{EntityType: entityType}
	}
	return c, nil
}

// #endregion memory-population

// #region memory-collection

// MemoryCollection holds attribute arrays for one entity type.
type MemoryCollection struct {
	entityType string
	ids        []string
	attrs      map[string]any
}

// SetAttribute installs or replaces an attribute array. The collection keeps
// the slice as-is; callers that mutate it between steps are simulating the
// aliasing the pipeline defends against.
func (c *MemoryCollection) SetAttribute(name string, value any) {
	c.attrs[name] = value
}

// IDs implements Collection.
func (c *MemoryCollection) IDs() []string { return c.ids }

// Attribute implements Collection.
func (c *MemoryCollection) Attribute(name string) (any, error) {
	v, ok := c.attrs[name]
	if !ok {
		return nil, &AttributeError{EntityType: c.entityType, VarName: name}
	}
	return v, nil
}

// #endregion memory-collection
