package introspect

// Stage names a step of an introspection run
type Stage string

const (
	StageStarted            Stage = "started"
	StageCollectionSampled  Stage = "collection_sampled"
	StageCandidatesFound    Stage = "candidates_found"
	StageReferencesVerified Stage = "references_verified"
	StageCompleted          Stage = "completed"
)

// Progress describes one step of a run
type Progress struct {
	Stage      Stage
	Collection string
	// Documents is the number of sampled documents for StageCollectionSampled
	Documents int
	// Count is the number of collections, candidates, references or models
	Count int
}

// ProgressFunc receives progress reports. It may be called from several
// goroutines at once and must not block.
type ProgressFunc func(Progress)

func (f ProgressFunc) report(p Progress) {
	if f != nil {
		f(p)
	}
}
