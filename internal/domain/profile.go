package domain

import "sort"

// NodeProfile is the statistical profile of the values observed at one
// position of the sampled documents of a collection.
//
// Profiles are working state for a single introspection run. The reference
// map built after verification keys on *NodeProfile identity, so a profile
// must never be copied by value once it is part of a tree.
type NodeProfile struct {
	// Types counts observations per type tag; the counts sum to Seen
	Types map[TypeTag]int
	Seen  int

	// Object is nil until an object value is observed here
	Object map[string]*NodeProfile
	// ArrayElement is nil until an array value is observed here. It is
	// shared by every element of every array seen at this position.
	ArrayElement *NodeProfile

	// ReferenceCandidate starts true and only ever goes false
	ReferenceCandidate bool

	samples    map[string]any
	sampleKeys []string
}

// NewNodeProfile creates an empty profile that is still a reference candidate
func NewNodeProfile() *NodeProfile {
	return &NodeProfile{
		Types:              make(map[TypeTag]int),
		ReferenceCandidate: true,
		samples:            make(map[string]any),
	}
}

// Record counts one observation of the given type
func (n *NodeProfile) Record(tag TypeTag) {
	n.Seen++
	n.Types[tag]++
}

// Child returns the profile of an object field, creating it on first use
func (n *NodeProfile) Child(key string) *NodeProfile {
	if n.Object == nil {
		n.Object = make(map[string]*NodeProfile)
	}
	child, ok := n.Object[key]
	if !ok {
		child = NewNodeProfile()
		n.Object[key] = child
	}
	return child
}

// Element returns the shared array element profile, creating it on first use
func (n *NodeProfile) Element() *NodeProfile {
	if n.ArrayElement == nil {
		n.ArrayElement = NewNodeProfile()
	}
	return n.ArrayElement
}

// HasType reports whether the tag was observed at least once
func (n *NodeProfile) HasType(tag TypeTag) bool {
	return n.Types[tag] > 0
}

// NonNullTypes returns the distinct observed tags other than null, sorted
func (n *NodeProfile) NonNullTypes() []TypeTag {
	tags := make([]TypeTag, 0, len(n.Types))
	for tag, count := range n.Types {
		if tag == TypeNull || count == 0 {
			continue
		}
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// SingleType returns the only non-null tag observed, if exactly one was
func (n *NodeProfile) SingleType() (TypeTag, bool) {
	tags := n.NonNullTypes()
	if len(tags) != 1 {
		return "", false
	}
	return tags[0], true
}

// Demote permanently clears the reference candidate flag and drops the samples
func (n *NodeProfile) Demote() {
	n.ReferenceCandidate = false
	n.samples = nil
	n.sampleKeys = nil
}

// AddSample keeps a raw value under its canonical key while the node is a
// candidate and fewer than limit distinct keys are held. It reports whether
// the value is held after the call.
func (n *NodeProfile) AddSample(key string, value any, limit int) bool {
	if !n.ReferenceCandidate {
		return false
	}
	if _, ok := n.samples[key]; ok {
		return true
	}
	if len(n.samples) >= limit {
		return false
	}
	if n.samples == nil {
		n.samples = make(map[string]any)
	}
	n.samples[key] = value
	n.sampleKeys = append(n.sampleKeys, key)
	return true
}

// SampleCount returns the number of distinct samples held
func (n *NodeProfile) SampleCount() int {
	return len(n.samples)
}

// SampleKeys returns the canonical keys of the samples, sorted
func (n *NodeProfile) SampleKeys() []string {
	keys := make([]string, len(n.sampleKeys))
	copy(keys, n.sampleKeys)
	sort.Strings(keys)
	return keys
}

// Sample returns the raw value held under a canonical key
func (n *NodeProfile) Sample(key string) (any, bool) {
	v, ok := n.samples[key]
	return v, ok
}

// ChildKeys returns the observed field names, sorted
func (n *NodeProfile) ChildKeys() []string {
	keys := make([]string, 0, len(n.Object))
	for k := range n.Object {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ModelProfile pairs a collection with the profile of its documents
type ModelProfile struct {
	Name string
	Root *NodeProfile
}
