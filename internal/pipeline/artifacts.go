package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/callsift/internal/transform"
)

// Artifact file names, fixed so downstream tooling can rely on them.
const (
	MoneyResultFile  = "money_result.json"
	EntityResultFile = "entity_result.json"
	MoneyTableFile   = "etl_money_result.csv"
	EntityTableFile  = "etl_entity_result.csv"
	SummaryFile      = "run_summary.json"
)

// WriteArtifacts renders the run's outputs into dir: the raw extraction
// results as JSON, the transformed tables as CSV and the run summary.
// A transform failure on one table is reported but does not block the rest.
func (p *Pipeline) WriteArtifacts(result *Result, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	verbose := p.config.Output.Verbose

	if err := writeJSON(filepath.Join(dir, MoneyResultFile), result.MoneyFacts); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, EntityResultFile), result.EntityFacts); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s, %s\n", MoneyResultFile, EntityResultFile)
	}

	if len(result.MoneyFacts) > 0 {
		tab, err := transform.NewPipeline(transform.MoneySteps()...).Run(transform.MoneyTable(result.MoneyFacts))
		if err != nil {
			fmt.Printf("Warning: money transform failed: %v\n", err)
		} else if err := writeCSV(filepath.Join(dir, MoneyTableFile), tab); err != nil {
			return err
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s (%d rows)\n", MoneyTableFile, len(tab.Rows))
		}
	}

	if len(result.EntityFacts) > 0 {
		tab, err := transform.NewPipeline(transform.EntitySteps()...).Run(transform.EntityTable(result.EntityFacts))
		if err != nil {
			fmt.Printf("Warning: entity transform failed: %v\n", err)
		} else if err := writeCSV(filepath.Join(dir, EntityTableFile), tab); err != nil {
			return err
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s (%d rows)\n", EntityTableFile, len(tab.Rows))
		}
	}

	return writeJSON(filepath.Join(dir, SummaryFile), result.Summary)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, tab transform.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := transform.WriteCSV(f, tab); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
