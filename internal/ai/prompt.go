package ai

import (
	"fmt"
	"strings"

	"webtest-pilot/internal/entity"
)

const promptTemplate = `You are a test automation expert. Given the following web elements%s and user requirements, generate a test case that follows the exact JSON structure shown below.

Available Elements:
%s

User Requirements:
%s

Response must be a valid JSON object with this exact structure, with input_value optional but the other fields mandatory:
{
    "steps": [
        {
            "action": "find_element",
            "by": "xpath",
            "value": "//specific/xpath/here",
            "step_type": "input|click|select|scroll",
            "input_value": "actual value (only for input/select)"
        }
    ]
}

Rules:
1. Respond with ONLY the JSON object, no additional text
2. Include "input_value" ONLY for input and select steps
3. For inputs, use realistic values within normal boundaries
4. "step_type" must be one of: input, click, select, scroll
5. For scroll steps, scroll to the element before interacting with it
6. Use proper XPath values from the available elements`

const screenshotNote = ", a captured screenshot of the page for reference,"

// buildPrompt renders the full generation prompt: element inventory, user
// intent and the fixed response-format contract.
func buildPrompt(inventory *entity.Inventory, intent, screenshotPath string) string {
	note := ""
	if screenshotPath != "" {
		note = screenshotNote
	}

	return fmt.Sprintf(promptTemplate, note, renderInventory(inventory), intent)
}

// renderInventory produces a deterministic human-readable block, grouped by
// element type in scan order. Each record is a comma-joined list of its
// non-empty attributes.
func renderInventory(inventory *entity.Inventory) string {
	var lines []string

	for _, elementType := range entity.ElementTypes {
		records := inventory.Records(elementType)
		if len(records) == 0 {
			continue
		}

		lines = append(lines, fmt.Sprintf("\n%s Elements:", strings.ToUpper(string(elementType))))

		for _, record := range records {
			lines = append(lines, "  - "+renderRecord(record))
		}
	}

	return strings.Join(lines, "\n")
}

func renderRecord(record entity.ElementRecord) string {
	pairs := make([]string, 0, 6)

	appendPair := func(key, value string) {
		if value != "" {
			pairs = append(pairs, key+": "+value)
		}
	}

	appendPair("type", string(record.Type))
	appendPair("id", record.ID)
	appendPair("name", record.Name)
	appendPair("class", record.Class)
	appendPair("text", record.Text)
	appendPair("xpath", record.XPath)

	return strings.Join(pairs, ", ")
}
