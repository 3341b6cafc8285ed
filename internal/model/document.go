package model

import "fmt"

// ReferenceDepth selects the granularity used when filtering and batching
// text units: whole paragraphs or individual sentences.
type ReferenceDepth string

const (
	DepthParagraphs ReferenceDepth = "paragraphs"
	DepthSentences  ReferenceDepth = "sentences"
)

// Valid reports whether the depth is one of the supported values.
func (d ReferenceDepth) Valid() bool {
	return d == DepthParagraphs || d == DepthSentences
}

// ParseReferenceDepth converts a string flag/config value into a ReferenceDepth.
func ParseReferenceDepth(s string) (ReferenceDepth, error) {
	d := ReferenceDepth(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid reference depth %q (supported: paragraphs, sentences)", s)
	}
	return d, nil
}

// Sentence is an immutable text unit inside a paragraph.
// Paragraph is an index into the owning Document's paragraph slice,
// never a pointer, so documents stay acyclic.
type Sentence struct {
	RawText   string `json:"raw_text"`
	Paragraph int    `json:"paragraph"`
}

// Paragraph is a maximal run of text between blank lines.
// Sentences are derived lazily by the segmenter and always rebuilt
// together with the paragraph slice, never patched in isolation.
type Paragraph struct {
	Index     int        `json:"index"`
	RawText   string     `json:"raw_text"`
	Sentences []Sentence `json:"sentences,omitempty"`
}

// Document is the segmented form of one source file.
type Document struct {
	ID         string      `json:"id"`
	RawText    string      `json:"raw_text,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Units returns the raw text of every unit at the requested depth,
// in source order.
func (d *Document) Units(depth ReferenceDepth) []string {
	var units []string
	for _, p := range d.Paragraphs {
		switch depth {
		case DepthSentences:
			for _, s := range p.Sentences {
				units = append(units, s.RawText)
			}
		default:
			units = append(units, p.RawText)
		}
	}
	return units
}

// Sentences returns every sentence in the document in source order.
func (d *Document) Sentences() []Sentence {
	var out []Sentence
	for _, p := range d.Paragraphs {
		out = append(out, p.Sentences...)
	}
	return out
}
