package introspect

import "docscope/internal/domain"

// CandidateMap maps a target model name to the profile nodes, anywhere in
// any tree, whose type matches that model's _id type
type CandidateMap map[string][]*domain.NodeProfile

// Count returns the total number of candidate entries
func (m CandidateMap) Count() int {
	n := 0
	for _, nodes := range m {
		n += len(nodes)
	}
	return n
}

// FindReferenceCandidates narrows the positions that could reference another
// model by type compatibility alone. It issues no queries.
func FindReferenceCandidates(models []domain.ModelProfile) CandidateMap {
	targets := keyTypeIndex(models)
	candidates := make(CandidateMap)

	for _, model := range models {
		skip := idNode(model)
		walkProfile(model.Root, skip, func(node *domain.NodeProfile) {
			if !node.ReferenceCandidate {
				return
			}
			tag, ok := node.SingleType()
			if !ok {
				return
			}
			for _, target := range targets[tag] {
				candidates[target] = append(candidates[target], node)
			}
		})
	}
	return candidates
}

// keyTypeIndex maps each unambiguous _id type to the models keyed by it
func keyTypeIndex(models []domain.ModelProfile) map[domain.TypeTag][]string {
	index := make(map[domain.TypeTag][]string)
	for _, model := range models {
		id := idNode(model)
		if id == nil {
			continue
		}
		tag, ok := id.SingleType()
		if !ok {
			continue
		}
		index[tag] = append(index[tag], model.Name)
	}
	return index
}

func idNode(model domain.ModelProfile) *domain.NodeProfile {
	if model.Root == nil || model.Root.Object == nil {
		return nil
	}
	return model.Root.Object[domain.IDField]
}

// walkProfile visits every node below root in key order, skipping one node
// and its subtree
func walkProfile(node, skip *domain.NodeProfile, visit func(*domain.NodeProfile)) {
	if node == nil || node == skip {
		return
	}
	visit(node)
	for _, key := range node.ChildKeys() {
		walkProfile(node.Object[key], skip, visit)
	}
	walkProfile(node.ArrayElement, skip, visit)
}
