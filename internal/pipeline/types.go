// Package pipeline implements the linear step executor: definition
// validation, FromStep JSON-pointer cross-step value resolution, and
// sequential stop-on-failure execution, grounded on the teacher's
// stage-loop executor and the overhuman DAG runner's step model.
package pipeline

// InputValue is either a literal JSON-like value or a FromStep
// reference into an earlier step's recorded output.
type InputValue struct {
	Literal  any
	FromStep *FromStep
}

// FromStep references another (earlier) step's output by a JSON
// pointer path.
type FromStep struct {
	FromStepID string
	Path       string
}

// Step is one tool invocation with its named inputs.
type Step struct {
	ID    string
	Tool  string
	Input map[string]InputValue
}

// GovernanceRefs requires at least one change-request or decision id
// alongside non-empty budget/release references, when present at all.
type GovernanceRefs struct {
	BudgetRef          string
	ReleaseRef         string
	ChangeRequestIDs   []string
	DecisionIDs        []string
}

// Definition is the full pipeline contract: a name, optional campaign
// binding, optional output manifest path, optional governance
// references, and 1-50 ordered steps.
type Definition struct {
	Name               string
	CampaignID         *string
	OutputManifestPath *string
	GovernanceRefs     *GovernanceRefs
	Steps              []Step
}

// ErrorKind distinguishes a validation failure from a tool execution
// failure in a step result.
type ErrorKind string

const (
	ErrorKindValidation     ErrorKind = "validation_error"
	ErrorKindToolExecution  ErrorKind = "tool_execution_error"
)

// StepError is the structured failure recorded against a step.
type StepError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

// StepResult is the recorded outcome of one executed step.
type StepResult struct {
	StepID     string
	StartedAt  string
	EndedAt    string
	DurationMs int64
	Succeeded  bool
	Output     any
	Error      *StepError
}

// RunResult is the full pipeline execution outcome: prefix-complete up
// to and including the first failure.
type RunResult struct {
	Succeeded bool
	Steps     []StepResult
}

// ValidationError is the structured diagnostic definition validation
// returns.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
