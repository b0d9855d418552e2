package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Tool is the narrow capability interface a pipeline step dispatches
// to. It mirrors spec.md §6's Tool interface: execute(input) ->
// Result<output>.
type Tool interface {
	Execute(ctx context.Context, input map[string]any) (any, error)
}

// Execute runs def's steps sequentially in declaration order, resolving
// each step's inputs against prior outputs, dispatching to the named
// tool, and recording a timed StepResult. On the first validation or
// tool error the run stops: the failing step is recorded and the
// result's Succeeded flag is false. Steps after a failure are omitted,
// so Steps is always a prefix of def.Steps.
func Execute(ctx context.Context, def Definition, tools map[string]Tool) RunResult {
	if err := ValidateDefinition(def); err != nil {
		return RunResult{Succeeded: false}
	}

	outputs := make(map[string]any, len(def.Steps))
	result := RunResult{Succeeded: true}

	for _, step := range def.Steps {
		started := time.Now().UTC()

		input, rerr := resolveInputs(step, outputs)
		if rerr != nil {
			result.Steps = append(result.Steps, StepResult{
				StepID: step.ID, StartedAt: started.Format(time.RFC3339Nano), EndedAt: started.Format(time.RFC3339Nano),
				Succeeded: false, Error: rerr,
			})
			result.Succeeded = false
			return result
		}

		tool, ok := tools[step.Tool]
		if !ok {
			ended := time.Now().UTC()
			result.Steps = append(result.Steps, StepResult{
				StepID: step.ID, StartedAt: started.Format(time.RFC3339Nano), EndedAt: ended.Format(time.RFC3339Nano),
				DurationMs: ended.Sub(started).Milliseconds(), Succeeded: false,
				Error: &StepError{Kind: ErrorKindValidation, Code: "unknown_tool", Message: fmt.Sprintf("no tool registered for '%s'", step.Tool)},
			})
			result.Succeeded = false
			return result
		}

		output, err := tool.Execute(ctx, input)
		ended := time.Now().UTC()
		if err != nil {
			result.Steps = append(result.Steps, StepResult{
				StepID: step.ID, StartedAt: started.Format(time.RFC3339Nano), EndedAt: ended.Format(time.RFC3339Nano),
				DurationMs: ended.Sub(started).Milliseconds(), Succeeded: false,
				Error: &StepError{Kind: ErrorKindToolExecution, Code: "tool_execution_failed", Message: err.Error()},
			})
			result.Succeeded = false
			return result
		}

		outputs[step.ID] = output
		result.Steps = append(result.Steps, StepResult{
			StepID: step.ID, StartedAt: started.Format(time.RFC3339Nano), EndedAt: ended.Format(time.RFC3339Nano),
			DurationMs: ended.Sub(started).Milliseconds(), Succeeded: true, Output: output,
		})
	}

	return result
}
