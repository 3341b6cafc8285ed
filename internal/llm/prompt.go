package llm

import (
	"fmt"
	"strings"
)

// System prompts for the two extraction targets. Kept terse: local models
// follow short, explicit instructions better than long ones.
const (
	MoneySystemPrompt = `You extract monetary amounts from call-for-proposal text.
Respond with JSON only, matching the provided schema exactly.
For every monetary amount found, report its numeric value, the currency,
a short context describing what the amount refers to, and the exact sentence
it appears in, copied verbatim from the input.
If no monetary amount is present, return an empty list.`

	EntitySystemPrompt = `You extract consortium composition requirements from call-for-proposal text.
Respond with JSON only, matching the provided schema exactly.
For every organization type admitted to the consortium, report the type and
the minimum number of entities required.
If no consortium requirement is present, return an empty list.`
)

// RenderPrompt embeds a batch of text units and the schema instruction into
// one user prompt. Units are numbered so the model treats them as separate
// passages instead of one blob.
func RenderPrompt(units []string, schemaInstruction string) string {
	var b strings.Builder

	b.WriteString("Analyze the following passages:\n\n")
	for i, u := range units {
		fmt.Fprintf(&b, "--- Passage %d ---\n%s\n\n", i+1, u)
	}
	b.WriteString("Return a single JSON object conforming to this JSON schema:\n")
	b.WriteString(schemaInstruction)
	b.WriteString("\n")

	return b.String()
}
