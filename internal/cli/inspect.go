package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ppiankov/callsift/internal/filter"
	"github.com/ppiankov/callsift/internal/model"
	"github.com/ppiankov/callsift/internal/pdf"
	"github.com/ppiankov/callsift/internal/segment"
	"github.com/spf13/cobra"
)

var (
	inspectDepth   string
	inspectTimeout time.Duration
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <pdf>",
	Short: "Show what the extraction stage would see for one PDF",
	Long: `Inspect converts a single PDF to text, segments it and applies the
money and consortium filters, without calling any model. Useful for
checking what a document yields before spending model time on it.

Example:
  callsift inspect calls/AMIF-2025-TF2-AG-CALL-01.pdf
  callsift inspect call.pdf --depth sentences`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectDepth, "depth", "paragraphs", "text unit granularity (paragraphs, sentences)")
	inspectCmd.Flags().DurationVar(&inspectTimeout, "timeout", 2*time.Minute, "conversion timeout")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), inspectTimeout)
	defer cancel()

	depth, err := model.ParseReferenceDepth(inspectDepth)
	if err != nil {
		return err
	}

	text, err := pdf.NewConverter().ExtractText(ctx, path)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	docID := filepath.Base(path)
	doc, err := segment.Segment(docID, text)
	if err != nil {
		return fmt.Errorf("segment: %w", err)
	}

	moneyUnits := filter.Document(doc, filter.Money(), depth)
	entityUnits := filter.Document(doc, filter.Consortium(), model.DepthParagraphs)

	fmt.Printf("Document: %s\n", docID)
	if title := pdf.SeriesTitles([]string{path})[path]; title != "" {
		fmt.Printf("Series: %s\n", title)
	}
	fmt.Printf("Paragraphs: %d, sentences: %d\n", len(doc.Paragraphs), len(doc.Sentences()))
	fmt.Printf("Money units (%s): %d\n", depth, len(moneyUnits))
	for i, u := range moneyUnits {
		fmt.Printf("  [%d] %s\n", i, truncate(u, 120))
	}
	fmt.Printf("Consortium units: %d\n", len(entityUnits))
	for i, u := range entityUnits {
		fmt.Printf("  [%d] %s\n", i, truncate(u, 120))
	}
	return nil
}

// truncate trims on runes; call texts carry multi-byte characters like €.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
