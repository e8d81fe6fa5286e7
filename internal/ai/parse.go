package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"webtest-pilot/internal/entity"
	"webtest-pilot/pkg/apperr"
)

// requiredStepFields must be present on every step; input_value is required
// only for input and select steps. Value domains (step_type, by) are checked
// at execution time, not here.
var requiredStepFields = []string{"action", "by", "value", "step_type"}

// stripCodeFence removes a surrounding ```json fence if present. Stripping
// is idempotent: unfenced content passes through unchanged.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimSuffix(content, "```")

	return strings.TrimSpace(content)
}

// parseTestCase turns the raw model output into a validated TestCase.
// Validation is structural only: the steps key, the four mandatory step
// fields, and input_value where the step type calls for one.
func parseTestCase(content string) (*entity.TestCase, error) {
	const op = "parseTestCase"

	cleaned := stripCodeFence(content)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeBadResponse, fmt.Errorf("parse LLM response as JSON: %w", err), map[string]any{
			apperr.MetaReason: "invalid_json",
			apperr.MetaStage:  apperr.StageGeneration,
		})
	}

	rawSteps, ok := top["steps"]
	if !ok {
		return nil, apperr.Wrap(op, apperr.CodeBadResponse, fmt.Errorf("invalid test case structure: missing steps"), map[string]any{
			apperr.MetaReason: "missing_steps",
			apperr.MetaStage:  apperr.StageGeneration,
		})
	}

	var stepMaps []map[string]json.RawMessage
	if err := json.Unmarshal(rawSteps, &stepMaps); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeBadResponse, fmt.Errorf("invalid steps array: %w", err), map[string]any{
			apperr.MetaReason: "invalid_steps",
			apperr.MetaStage:  apperr.StageGeneration,
		})
	}

	var testCase entity.TestCase
	if err := json.Unmarshal([]byte(cleaned), &testCase); err != nil {
		return nil, apperr.Wrap(op, apperr.CodeBadResponse, fmt.Errorf("decode test case: %w", err), map[string]any{
			apperr.MetaReason: "invalid_test_case",
			apperr.MetaStage:  apperr.StageGeneration,
		})
	}

	for i, stepMap := range stepMaps {
		for _, field := range requiredStepFields {
			if _, ok := stepMap[field]; !ok {
				return nil, apperr.Wrap(op, apperr.CodeBadResponse,
					fmt.Errorf("step %d missing required field %q", i, field), map[string]any{
						apperr.MetaReason:    "missing_step_field",
						apperr.MetaStage:     apperr.StageGeneration,
						apperr.MetaField:     field,
						apperr.MetaStepIndex: i,
					})
			}
		}

		step := testCase.Steps[i]

		if _, hasInput := stepMap["input_value"]; step.NeedsInputValue() && !hasInput {
			return nil, apperr.Wrap(op, apperr.CodeBadResponse,
				fmt.Errorf("step %d (%s) missing input_value", i, step.StepType), map[string]any{
					apperr.MetaReason:    "missing_input_value",
					apperr.MetaStage:     apperr.StageGeneration,
					apperr.MetaStepIndex: i,
					apperr.MetaStepType:  string(step.StepType),
				})
		}
	}

	return &testCase, nil
}
