package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// resolvePointer dereferences a JSON-pointer string ("" or starting
// with "/") against an arbitrary map[string]any / []any / scalar tree,
// by hand, without reflection, per the REDESIGN FLAGS on runtime value
// wiring.
func resolvePointer(root any, pointer string) (any, bool) {
	if pointer == "" {
		return root, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}
	tokens := strings.Split(pointer[1:], "/")
	current := root
	for _, tok := range tokens {
		tok = unescapeToken(tok)
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[tok]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func unescapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	tok = strings.ReplaceAll(tok, "~0", "~")
	return tok
}

// resolveInputs resolves every step's declared input against the map of
// prior step outputs keyed by step id.
func resolveInputs(step Step, outputs map[string]any) (map[string]any, *StepError) {
	resolved := make(map[string]any, len(step.Input))
	for name, input := range step.Input {
		if input.FromStep == nil {
			resolved[name] = input.Literal
			continue
		}
		output, ok := outputs[input.FromStep.FromStepID]
		if !ok {
			return nil, &StepError{Kind: ErrorKindValidation, Code: "from_step_output_missing",
				Message: fmt.Sprintf("step '%s' output not yet recorded", input.FromStep.FromStepID)}
		}
		value, ok := resolvePointer(output, input.FromStep.Path)
		if !ok {
			return nil, &StepError{Kind: ErrorKindValidation, Code: "from_step_path_unresolved",
				Message: fmt.Sprintf("could not resolve path '%s' against step '%s' output", input.FromStep.Path, input.FromStep.FromStepID)}
		}
		resolved[name] = value
	}
	return resolved, nil
}
