package importer

// Stage is a step of the import pipeline.
type Stage int

const (
	StageUpload Stage = iota
	StageMapping
	StageCategorize
	StageSuccess
)

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "upload"
	case StageMapping:
		return "mapping"
	case StageCategorize:
		return "categorize"
	case StageSuccess:
		return "success"
	}
	return "unknown"
}
