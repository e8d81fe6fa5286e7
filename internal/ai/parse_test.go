package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	. "github.com/onsi/gomega"

	"webtest-pilot/internal/entity"
	"webtest-pilot/pkg/apperr"
)

const validResponse = `{
	"steps": [
		{"action": "find_element", "by": "xpath", "value": "//*[@id=\"amount\"]", "step_type": "input", "input_value": "2500000"},
		{"action": "find_element", "by": "xpath", "value": "//body/div[1]/button[1]", "step_type": "click"}
	]
}`

func TestParseTestCase_Valid(t *testing.T) {
	g := NewWithT(t)

	testCase, err := parseTestCase(validResponse)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(testCase.Steps).To(HaveLen(2))
	g.Expect(testCase.Steps[0].StepType).To(Equal(entity.StepTypeInput))
	g.Expect(testCase.Steps[0].InputValue).To(Equal("2500000"))
	g.Expect(testCase.Steps[1].StepType).To(Equal(entity.StepTypeClick))
	g.Expect(testCase.Steps[1].Value).To(Equal("//body/div[1]/button[1]"))
}

func TestParseTestCase_FencedEqualsUnfenced(t *testing.T) {
	g := NewWithT(t)

	fenced := "```json\n" + validResponse + "\n```"

	fromFenced, err := parseTestCase(fenced)
	g.Expect(err).ToNot(HaveOccurred())

	fromPlain, err := parseTestCase(validResponse)
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(fromFenced).To(Equal(fromPlain))
}

func TestParseTestCase_NotJSON(t *testing.T) {
	g := NewWithT(t)

	_, err := parseTestCase("I would suggest clicking the submit button.")

	g.Expect(err).To(HaveOccurred())
	g.Expect(apperr.Code(err)).To(Equal(apperr.CodeBadResponse))
}

func TestParseTestCase_MissingStepsKey(t *testing.T) {
	g := NewWithT(t)

	_, err := parseTestCase(`{"actions": []}`)

	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("steps"))
}

func TestParseTestCase_MissingRequiredFields(t *testing.T) {
	fields := map[string]string{
		"action":    `{"steps": [{"by": "xpath", "value": "//a[1]", "step_type": "click"}]}`,
		"by":        `{"steps": [{"action": "find_element", "value": "//a[1]", "step_type": "click"}]}`,
		"value":     `{"steps": [{"action": "find_element", "by": "xpath", "step_type": "click"}]}`,
		"step_type": `{"steps": [{"action": "find_element", "by": "xpath", "value": "//a[1]"}]}`,
	}

	for field, payload := range fields {
		t.Run(field, func(t *testing.T) {
			g := NewWithT(t)

			_, err := parseTestCase(payload)

			g.Expect(err).To(HaveOccurred())
			g.Expect(err.Error()).To(ContainSubstring(field))
		})
	}
}

func TestParseTestCase_InputValueConditionallyRequired(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "input without input_value",
			payload: `{"steps": [{"action": "find_element", "by": "xpath", "value": "//input[1]", "step_type": "input"}]}`,
			wantErr: true,
		},
		{
			name:    "select without input_value",
			payload: `{"steps": [{"action": "find_element", "by": "xpath", "value": "//select[1]", "step_type": "select"}]}`,
			wantErr: true,
		},
		{
			name:    "click without input_value",
			payload: `{"steps": [{"action": "find_element", "by": "xpath", "value": "//button[1]", "step_type": "click"}]}`,
			wantErr: false,
		},
		{
			name:    "scroll without input_value",
			payload: `{"steps": [{"action": "find_element", "by": "xpath", "value": "//div[1]", "step_type": "scroll"}]}`,
			wantErr: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewWithT(t)

			_, err := parseTestCase(tc.payload)

			if tc.wantErr {
				g.Expect(err).To(HaveOccurred())
			} else {
				g.Expect(err).ToNot(HaveOccurred())
			}
		})
	}
}

// Value domains stay unvalidated at parse time; an unknown step type only
// surfaces when the executor dispatches it.
func TestParseTestCase_UnknownStepTypeDeferred(t *testing.T) {
	g := NewWithT(t)

	testCase, err := parseTestCase(`{"steps": [{"action": "find_element", "by": "xpath", "value": "//a[1]", "step_type": "hover"}]}`)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(testCase.Steps[0].StepType).To(Equal(entity.StepType("hover")))
}

func TestParseTestCase_WrapsGenerationErrors(t *testing.T) {
	g := NewWithT(t)

	_, err := parseTestCase(`{"steps": "not an array"}`)

	g.Expect(err).To(HaveOccurred())

	var appErr *apperr.Error
	g.Expect(errors.As(err, &appErr)).To(BeTrue())
	g.Expect(appErr.Metadata[apperr.MetaStage]).To(Equal(apperr.StageGeneration))
}

func TestStripCodeFence_Idempotent_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("stripping twice equals stripping once", prop.ForAll(
		func(body string, fenced bool) bool {
			content := body
			if fenced {
				content = fmt.Sprintf("```json\n%s\n```", body)
			}

			once := stripCodeFence(content)

			return stripCodeFence(once) == once
		},
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.Property("unfenced trimmed content passes through unchanged", prop.ForAll(
		func(body string) bool {
			return stripCodeFence(body) == body
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
