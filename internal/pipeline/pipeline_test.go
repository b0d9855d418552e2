package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constTool struct {
	output any
	err    error
}

func (c constTool) Execute(ctx context.Context, input map[string]any) (any, error) {
	return c.output, c.err
}

func TestValidateDefinition_ForwardReference(t *testing.T) {
	def := Definition{
		Name: "p",
		Steps: []Step{
			{ID: "first", Tool: "t"},
			{ID: "second", Tool: "t", Input: map[string]InputValue{
				"x": {FromStep: &FromStep{FromStepID: "third", Path: ""}},
			}},
			{ID: "third", Tool: "t"},
		},
	}
	err := ValidateDefinition(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before it exists")
}

func TestExecute_StopsOnFailureAndIsPrefixComplete(t *testing.T) {
	def := Definition{
		Name: "p",
		Steps: []Step{
			{ID: "first", Tool: "ok"},
			{ID: "second", Tool: "fail"},
			{ID: "third", Tool: "ok"},
		},
	}
	tools := map[string]Tool{
		"ok":   constTool{output: map[string]any{"value": 1}},
		"fail": constTool{err: errors.New("boom")},
	}
	result := Execute(context.Background(), def, tools)
	assert.False(t, result.Succeeded)
	require.Len(t, result.Steps, 2)
	assert.True(t, result.Steps[0].Succeeded)
	assert.False(t, result.Steps[1].Succeeded)
	assert.Equal(t, ErrorKindToolExecution, result.Steps[1].Error.Kind)
}

func TestExecute_ResolvesFromStepOutput(t *testing.T) {
	def := Definition{
		Name: "p",
		Steps: []Step{
			{ID: "first", Tool: "ok"},
			{ID: "second", Tool: "ok", Input: map[string]InputValue{
				"v": {FromStep: &FromStep{FromStepID: "first", Path: "/value"}},
			}},
		},
	}
	tools := map[string]Tool{"ok": constTool{output: map[string]any{"value": 42}}}
	result := Execute(context.Background(), def, tools)
	assert.True(t, result.Succeeded)
	require.Len(t, result.Steps, 2)
}

func TestResolvePointer(t *testing.T) {
	root := map[string]any{"a": map[string]any{"b": []any{1, 2, 3}}}
	v, ok := resolvePointer(root, "/a/b/1")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = resolvePointer(root, "/a/missing")
	assert.False(t, ok)
}
