// Package segment turns raw document text into the Document/Paragraph/Sentence
// model. Segmentation is a pure function of the input: identical text always
// yields identical boundaries.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ppiankov/callsift/internal/model"
)

// Paragraphs are maximal runs separated by one or more blank lines
// (whitespace-only lines count as blank).
var blankLineRE = regexp.MustCompile(`\n[ \t\r]*\n[\s]*`)

// Segment splits raw text into paragraphs and paragraph-scoped sentences.
// Empty or whitespace-only input is a SegmentationError.
func Segment(documentID, raw string) (*model.Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &model.SegmentationError{DocumentID: documentID, Reason: "empty input text"}
	}

	doc := &model.Document{ID: documentID, RawText: raw}

	for _, block := range blankLineRE.Split(raw, -1) {
		text := strings.TrimSpace(block)
		if text == "" {
			continue
		}
		idx := len(doc.Paragraphs)
		para := model.Paragraph{Index: idx, RawText: text}
		for _, s := range SplitSentences(text) {
			para.Sentences = append(para.Sentences, model.Sentence{RawText: s, Paragraph: idx})
		}
		doc.Paragraphs = append(doc.Paragraphs, para)
	}

	if len(doc.Paragraphs) == 0 {
		return nil, &model.SegmentationError{DocumentID: documentID, Reason: "no non-empty paragraphs"}
	}

	return doc, nil
}

// abbreviations that end with a period but do not terminate a sentence.
var abbreviations = map[string]bool{
	"e.g": true, "i.e": true, "etc": true, "cf": true, "vs": true,
	"no": true, "nr": true, "art": true, "para": true, "fig": true,
	"dr": true, "mr": true, "mrs": true, "ms": true, "prof": true,
	"inc": true, "ltd": true, "co": true, "approx": true, "max": true,
	"min": true,
}

// SplitSentences splits one paragraph's text into sentences. The scan is
// paragraph-scoped so boundaries never leak across paragraph breaks, and it
// is restartable: calling it twice on the same text yields the same result.
// A paragraph with no detectable boundary comes back as a single sentence.
func SplitSentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if !boundaryAt(runes, start, i) {
			continue
		}
		s := strings.TrimSpace(string(runes[start : i+1]))
		if s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	return sentences
}

// boundaryAt decides whether the terminator at position i ends a sentence.
// It requires following whitespace and a plausible sentence opener, and
// rejects decimal points, ellipses and known abbreviations.
func boundaryAt(runes []rune, start, i int) bool {
	// Terminator at end of text: the tail handling picks it up.
	if i+1 >= len(runes) {
		return false
	}
	if !unicode.IsSpace(runes[i+1]) {
		return false
	}

	if runes[i] == '.' {
		// Decimal or thousands separator: 500.000
		if i > 0 && unicode.IsDigit(runes[i-1]) && followedByDigit(runes, i+1) {
			return false
		}
		// Ellipsis
		if i > 0 && runes[i-1] == '.' {
			return false
		}
		if abbreviations[lastWord(runes, start, i)] {
			return false
		}
	}

	// Next non-space rune should start something sentence-like.
	for j := i + 1; j < len(runes); j++ {
		if unicode.IsSpace(runes[j]) {
			continue
		}
		r := runes[j]
		return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '(' || r == '€'
	}
	return false
}

func followedByDigit(runes []rune, from int) bool {
	for j := from; j < len(runes); j++ {
		if unicode.IsSpace(runes[j]) {
			continue
		}
		return unicode.IsDigit(runes[j])
	}
	return false
}

func lastWord(runes []rune, start, end int) string {
	j := end
	for j > start && (unicode.IsLetter(runes[j-1]) || runes[j-1] == '.') {
		j--
	}
	w := strings.ToLower(strings.TrimSuffix(string(runes[j:end]), "."))
	return strings.TrimPrefix(w, ".")
}
