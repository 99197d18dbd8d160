package domain

// Options bound the work done by one introspection run
type Options struct {
	// CollectionSampleSize caps the documents read per collection
	CollectionSampleSize int `json:"collectionSampleSize" yaml:"collection_sample_size"`
	// ReferenceSampleSize caps the values kept per reference candidate
	ReferenceSampleSize int `json:"referenceSampleSize" yaml:"reference_sample_size"`
	// MaxPropertiesPerObject turns wider objects into Mixed
	MaxPropertiesPerObject int `json:"maxPropertiesPerObject" yaml:"max_properties_per_object"`
}

const (
	DefaultCollectionSampleSize   = 100
	DefaultReferenceSampleSize    = 10
	DefaultMaxPropertiesPerObject = 30
)

// DefaultOptions returns the documented defaults
func DefaultOptions() Options {
	return Options{
		CollectionSampleSize:   DefaultCollectionSampleSize,
		ReferenceSampleSize:    DefaultReferenceSampleSize,
		MaxPropertiesPerObject: DefaultMaxPropertiesPerObject,
	}
}

// Validate returns a *ConfigurationError for the first option out of bounds
func (o Options) Validate() error {
	if o.CollectionSampleSize < 1 {
		return &ConfigurationError{Option: "collectionSampleSize", Value: o.CollectionSampleSize, Min: 1}
	}
	if o.ReferenceSampleSize < 0 {
		return &ConfigurationError{Option: "referenceSampleSize", Value: o.ReferenceSampleSize, Min: 0}
	}
	if o.MaxPropertiesPerObject < 1 {
		return &ConfigurationError{Option: "maxPropertiesPerObject", Value: o.MaxPropertiesPerObject, Min: 1}
	}
	return nil
}
