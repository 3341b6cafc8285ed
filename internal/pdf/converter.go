package pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// TextExtractor converts one document to plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Converter extracts text from PDF content streams. Layout is not
// reconstructed: text runs are joined per text object, text objects become
// lines, and pages become paragraphs.
type Converter struct{}

// NewConverter returns a ready Converter.
func NewConverter() *Converter {
	return &Converter{}
}

// ExtractText pulls the text-showing operators out of every page's content
// stream and joins them into paragraph-delimited plain text.
func (c *Converter) ExtractText(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	pdfCtx, err := api.ReadContext(f, nil)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := api.ValidateContext(pdfCtx); err != nil {
		return "", fmt.Errorf("validate %s: %w", path, err)
	}

	var pages []string
	for i := 1; i <= pdfCtx.PageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r, err := pdfcpu.ExtractPageContent(pdfCtx, i)
		if err != nil {
			return "", fmt.Errorf("extract page %d of %s: %w", i, path, err)
		}
		if r == nil {
			continue
		}
		raw, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read page %d of %s: %w", i, path, err)
		}
		if text := scrapeContent(string(raw)); text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// scrapeContent walks a decoded content stream and collects the arguments
// of the text-showing operators (Tj, TJ, ' and "). Each BT..ET text object
// becomes one line.
func scrapeContent(stream string) string {
	var lines []string
	var current []string
	var pending []string // string operands seen since the last operator

	flushObject := func() {
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
			current = nil
		}
	}

	i := 0
	n := len(stream)
	for i < n {
		switch ch := stream[i]; {
		case ch == '(':
			s, next := parseLiteralString(stream, i)
			pending = append(pending, s)
			i = next
		case ch == '<' && i+1 < n && stream[i+1] != '<':
			s, next := parseHexString(stream, i)
			pending = append(pending, s)
			i = next
		case ch == '%':
			for i < n && stream[i] != '\n' && stream[i] != '\r' {
				i++
			}
		case isOperatorByte(ch):
			start := i
			for i < n && isOperatorByte(stream[i]) {
				i++
			}
			switch stream[start:i] {
			case "Tj", "TJ", "'", "\"":
				if len(pending) > 0 {
					current = append(current, strings.Join(pending, ""))
				}
				pending = nil
			case "ET":
				pending = nil
				flushObject()
			case "BT":
				pending = nil
			default:
				pending = nil
			}
		default:
			i++
		}
	}
	flushObject()
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isOperatorByte(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b == '\'' || b == '"' || b == '*'
}

// parseLiteralString decodes a (...) string starting at stream[i] == '('.
// Returns the decoded text and the index just past the closing paren.
func parseLiteralString(stream string, i int) (string, int) {
	var b strings.Builder
	depth := 0
	n := len(stream)
	for ; i < n; i++ {
		c := stream[i]
		switch c {
		case '\\':
			if i+1 >= n {
				return b.String(), n
			}
			i++
			switch e := stream[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
				// ignored
			case '(', ')', '\\':
				b.WriteByte(e)
			case '\n', '\r':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					oct := string(e)
					for len(oct) < 3 && i+1 < n && stream[i+1] >= '0' && stream[i+1] <= '7' {
						i++
						oct += string(stream[i])
					}
					if v, err := strconv.ParseUint(oct, 8, 16); err == nil && v < 256 {
						b.WriteByte(byte(v))
					}
				} else {
					b.WriteByte(e)
				}
			}
		case '(':
			if depth > 0 {
				b.WriteByte(c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return b.String(), i + 1
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), n
}

// parseHexString decodes a <...> string starting at stream[i] == '<'.
// Single-byte codes only; multibyte CID text comes out garbled, which the
// downstream regex filters simply fail to match.
func parseHexString(stream string, i int) (string, int) {
	end := strings.IndexByte(stream[i:], '>')
	if end < 0 {
		return "", len(stream)
	}
	hex := stream[i+1 : i+end]
	var clean strings.Builder
	for _, c := range hex {
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' {
			clean.WriteRune(c)
		}
	}
	h := clean.String()
	if len(h)%2 == 1 {
		h += "0"
	}
	var b strings.Builder
	for j := 0; j+2 <= len(h); j += 2 {
		if v, err := strconv.ParseUint(h[j:j+2], 16, 8); err == nil {
			b.WriteByte(byte(v))
		}
	}
	return b.String(), i + end + 1
}
