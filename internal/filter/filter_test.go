package filter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ppiankov/callsift/internal/model"
)

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile(`(*unclosed`)
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
	var cfgErr *model.FilterConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected FilterConfigError, got %T", err)
	}
}

func TestCompile_EmptyPatternList(t *testing.T) {
	if _, err := Compile(); err == nil {
		t.Fatal("expected error for empty pattern list")
	}
}

func TestUnits_PreservesOrder(t *testing.T) {
	units := []string{
		"The call budget is EUR 1,000,000.",
		"No money mentioned here.",
		"A grant of 500 euros per participant.",
		"Another plain paragraph.",
	}

	kept := Units(units, Money())
	want := []string{units[0], units[2]}
	if !reflect.DeepEqual(kept, want) {
		t.Errorf("got %v, want %v", kept, want)
	}
}

func TestUnits_MatchAllReturnsInputUnchanged(t *testing.T) {
	units := []string{"alpha", "beta", "gamma"}
	matchAll := MustCompile(`.*`)

	kept := Units(units, matchAll)
	if !reflect.DeepEqual(kept, units) {
		t.Errorf("match-all pattern changed the sequence: %v", kept)
	}
}

func TestMoney_RequiresDigitAndCurrencyToken(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"The maximum grant is EUR 500,000.", true},
		{"about 3 euros", true},
		{"total of €250 per day", true},
		{"EUR amounts to be confirmed", false}, // no digits
		{"the year 2024 budget", false},        // no currency token
		{"the EURATOM programme costs 5", false},
	}
	p := Money()
	for _, tc := range cases {
		if got := p.Match(tc.text); got != tc.want {
			t.Errorf("Money().Match(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestConsortium_MatchesTableBlock(t *testing.T) {
	block := `Consortium composition
The consortium must include at least 3 entities from 2 Member States.
Coordinators must be public bodies; beneficiaries may be NGOs.`

	if !Consortium().Match(block) {
		t.Error("expected consortium pattern to match table block")
	}
	if Consortium().Match("a consortium of two entities") {
		t.Error("partial mention should not match")
	}
}

func TestDocument_SentenceDepth(t *testing.T) {
	doc := &model.Document{
		ID: "d",
		Paragraphs: []model.Paragraph{
			{
				Index:   0,
				RawText: "EUR 100 is available. Nothing else.",
				Sentences: []model.Sentence{
					{RawText: "EUR 100 is available.", Paragraph: 0},
					{RawText: "Nothing else.", Paragraph: 0},
				},
			},
		},
	}

	kept := Document(doc, Money(), model.DepthSentences)
	if len(kept) != 1 || kept[0] != "EUR 100 is available." {
		t.Errorf("unexpected filter result: %v", kept)
	}
}
