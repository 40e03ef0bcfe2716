package enums

import "fmt"

// PipelineStage is one step of the sales pipeline. Stages are ordered;
// Validation and later require commercial terms on the opportunity.
type PipelineStage string

const (
	StageLeadID       PipelineStage = "Lead ID"
	StageDiscovery    PipelineStage = "Discovery"
	StageSample       PipelineStage = "Sample"
	StageValidation   PipelineStage = "Validation"
	StageProposal     PipelineStage = "Proposal"
	StageConfirmation PipelineStage = "Confirmation"
	StageClosed       PipelineStage = "Closed"
)

var orderedStages = []PipelineStage{
	StageLeadID,
	StageDiscovery,
	StageSample,
	StageValidation,
	StageProposal,
	StageConfirmation,
	StageClosed,
}

func (s PipelineStage) String() string {
	return string(s)
}

func (s PipelineStage) IsValid() bool {
	return s.Order() >= 0
}

// Order returns the stage's position in the pipeline, or -1 if unknown.
func (s PipelineStage) Order() int {
	for i, v := range orderedStages {
		if s == v {
			return i
		}
	}
	return -1
}

// RequiresCommercialTerms reports whether the stage needs business
// model, unit and unit price to be set.
func (s PipelineStage) RequiresCommercialTerms() bool {
	return s.Order() >= StageValidation.Order()
}

// Next returns the following stage, or the stage itself when terminal.
func (s PipelineStage) Next() PipelineStage {
	i := s.Order()
	if i < 0 || i >= len(orderedStages)-1 {
		return s
	}
	return orderedStages[i+1]
}

func PipelineStages() []PipelineStage {
	out := make([]PipelineStage, len(orderedStages))
	copy(out, orderedStages)
	return out
}

func ParsePipelineStage(s string) (PipelineStage, error) {
	stage := PipelineStage(s)
	if !stage.IsValid() {
		return "", fmt.Errorf("invalid pipeline stage %q", s)
	}
	return stage, nil
}
