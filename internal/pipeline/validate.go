package pipeline

import (
	"fmt"
	"strings"
)

const maxSteps = 50

// ValidateDefinition checks the structural invariants named in
// spec.md §4.5: non-empty name, 1-50 steps, unique non-empty step ids,
// non-empty tool per step, non-empty input keys, and well-formed
// governance references if present.
func ValidateDefinition(def Definition) error {
	if strings.TrimSpace(def.Name) == "" {
		return &ValidationError{Message: "pipeline name cannot be empty"}
	}
	if len(def.Steps) == 0 {
		return &ValidationError{Message: "pipeline must include at least one step"}
	}
	if len(def.Steps) > maxSteps {
		return &ValidationError{Message: fmt.Sprintf("pipeline supports at most %d steps", maxSteps)}
	}

	seen := make(map[string]struct{}, len(def.Steps))
	for _, step := range def.Steps {
		if strings.TrimSpace(step.ID) == "" {
			return &ValidationError{Message: "pipeline step id cannot be empty"}
		}
		if _, exists := seen[step.ID]; exists {
			return &ValidationError{Message: fmt.Sprintf("duplicate pipeline step id '%s'", step.ID)}
		}
		seen[step.ID] = struct{}{}
		if strings.TrimSpace(step.Tool) == "" {
			return &ValidationError{Message: fmt.Sprintf("step '%s' must name a tool", step.ID)}
		}
		for key := range step.Input {
			if strings.TrimSpace(key) == "" {
				return &ValidationError{Message: fmt.Sprintf("step '%s' has an empty input key", step.ID)}
			}
		}
	}

	if def.GovernanceRefs != nil {
		g := def.GovernanceRefs
		if strings.TrimSpace(g.BudgetRef) == "" || strings.TrimSpace(g.ReleaseRef) == "" {
			return &ValidationError{Message: "governance_refs requires non-empty budget and release references"}
		}
		if len(g.ChangeRequestIDs) == 0 && len(g.DecisionIDs) == 0 {
			return &ValidationError{Message: "governance_refs requires at least one change-request or decision id"}
		}
	}

	// FromStep references may only target earlier steps.
	for idx, step := range def.Steps {
		for name, input := range step.Input {
			if input.FromStep == nil {
				continue
			}
			earlierIdx := -1
			for j := 0; j < idx; j++ {
				if def.Steps[j].ID == input.FromStep.FromStepID {
					earlierIdx = j
					break
				}
			}
			if earlierIdx == -1 {
				return &ValidationError{Message: fmt.Sprintf("step '%s' references '%s' before it exists", step.ID, input.FromStep.FromStepID)}
			}
			path := input.FromStep.Path
			if path != "" && !strings.HasPrefix(path, "/") {
				return &ValidationError{Message: fmt.Sprintf("step '%s' input '%s' has a malformed pointer path", step.ID, name)}
			}
		}
	}

	return nil
}
