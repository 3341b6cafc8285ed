package schema

import (
	"strings"
	"testing"
)

func TestValidate_MoneyAccepted(t *testing.T) {
	payload := `{
		"monetary_informations": [
			{
				"value": 500000,
				"currency": "EUR",
				"context": "maximum grant amount",
				"original_sentence": "The minimum EU grant request is EUR 500,000."
			}
		]
	}`

	if err := Validate(Money(), []byte(payload)); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidate_MoneyRejected(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"missing required field", `{"monetary_informations":[{"value":100,"currency":"EUR","context":"x"}]}`},
		{"wrong value type", `{"monetary_informations":[{"value":"100","currency":"EUR","context":"x","original_sentence":"y"}]}`},
		{"unknown top-level key", `{"monies":[]}`},
		{"not json at all", `the budget is EUR 100`},
		{"empty currency", `{"monetary_informations":[{"value":100,"currency":"","context":"x","original_sentence":"y"}]}`},
	}
	for _, tc := range cases {
		if err := Validate(Money(), []byte(tc.payload)); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidate_EntityAccepted(t *testing.T) {
	payload := `{
		"participants": [
			{"organization_type": "NGO", "min_entities": [3, 3]},
			{"organization_type": "public body", "min_entities": [1]}
		]
	}`

	if err := Validate(Entity(), []byte(payload)); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestValidate_EntityRejected(t *testing.T) {
	payload := `{"participants":[{"organization_type":"NGO","min_entities":["three"]}]}`
	if err := Validate(Entity(), []byte(payload)); err == nil {
		t.Error("expected validation error for non-integer min_entities")
	}
}

func TestInstruction_RendersJSON(t *testing.T) {
	out := Instruction(Money())
	if !strings.Contains(out, `"monetary_informations"`) {
		t.Errorf("instruction block missing schema content: %s", out)
	}
}
