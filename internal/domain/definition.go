package domain

// Source identifies the engine that produced an IntrospectionResult
const Source = "docscope"

// FormatVersion is the newest IntrospectionResult layout this engine understands
const FormatVersion = 1

// NodeDefinition is the finalized, serializable shape of one position.
// Object is a map so both encoders emit its keys in sorted order.
type NodeDefinition struct {
	Type         TypeTag                    `json:"type" yaml:"type"`
	Nullable     bool                       `json:"nullable" yaml:"nullable"`
	ReferenceTo  string                     `json:"referenceTo,omitempty" yaml:"referenceTo,omitempty"`
	ArrayElement *NodeDefinition            `json:"arrayElement,omitempty" yaml:"arrayElement,omitempty"`
	Object       map[string]*NodeDefinition `json:"object,omitempty" yaml:"object,omitempty"`
}

// ModelDefinition is the persisted description of one collection
type ModelDefinition struct {
	Name     string          `json:"name" yaml:"name"`
	Analysis *NodeDefinition `json:"analysis" yaml:"analysis"`
}

// IntrospectionResult is the durable output of an introspection run
type IntrospectionResult struct {
	Source  string            `json:"source" yaml:"source"`
	Version int               `json:"version" yaml:"version"`
	Models  []ModelDefinition `json:"models" yaml:"models"`
}

// Model returns the definition for the named collection
func (r *IntrospectionResult) Model(name string) (*ModelDefinition, bool) {
	for i := range r.Models {
		if r.Models[i].Name == name {
			return &r.Models[i], true
		}
	}
	return nil, false
}

// CheckVersion rejects results written by a newer engine. Older and equal
// versions are accepted.
func (r *IntrospectionResult) CheckVersion() error {
	if r.Version > FormatVersion {
		return &FormatVersionError{Found: r.Version, Supported: FormatVersion}
	}
	return nil
}
