package introspect

import (
	"sort"

	"docscope/internal/domain"
)

// ReferenceMap maps a profile node, by identity, to the model it references
type ReferenceMap map[*domain.NodeProfile]string

// NewReferenceMap flattens verified candidates. A node confirmed against
// several models references the first one by name.
func NewReferenceMap(verified CandidateMap) ReferenceMap {
	models := make([]string, 0, len(verified))
	for model := range verified {
		models = append(models, model)
	}
	sort.Strings(models)

	refs := make(ReferenceMap)
	for _, model := range models {
		for _, node := range verified[model] {
			if _, ok := refs[node]; !ok {
				refs[node] = model
			}
		}
	}
	return refs
}

// converter turns working profiles into finalized definitions
type converter struct {
	refs          ReferenceMap
	maxProperties int
}

// ConvertModels converts every profile and sorts the result by name
func ConvertModels(models []domain.ModelProfile, refs ReferenceMap, maxProperties int) []domain.ModelDefinition {
	c := converter{refs: refs, maxProperties: maxProperties}
	defs := make([]domain.ModelDefinition, 0, len(models))
	for _, model := range models {
		defs = append(defs, domain.ModelDefinition{
			Name:     model.Name,
			Analysis: c.convert(model.Root),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

func (c converter) convert(node *domain.NodeProfile) *domain.NodeDefinition {
	def := &domain.NodeDefinition{
		Type:        c.resolveType(node),
		Nullable:    node.HasType(domain.TypeNull),
		ReferenceTo: c.refs[node],
	}

	switch def.Type {
	case domain.TypeArray:
		if node.ArrayElement != nil {
			def.ArrayElement = c.convert(node.ArrayElement)
		}
	case domain.TypeObject:
		def.Object = make(map[string]*domain.NodeDefinition, len(node.Object))
		for _, key := range node.ChildKeys() {
			def.Object[key] = c.convert(node.Object[key])
		}
	}
	return def
}

// resolveType applies the Mixed rules uniformly at every depth
func (c converter) resolveType(node *domain.NodeProfile) domain.TypeTag {
	tag, ok := node.SingleType()
	if !ok {
		return domain.TypeMixed
	}
	if tag == domain.TypeObject {
		if n := len(node.Object); n == 0 || n > c.maxProperties {
			return domain.TypeMixed
		}
	}
	return tag
}
