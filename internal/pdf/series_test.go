package pdf

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestSelectCallPDFs(t *testing.T) {
	dir := t.TempDir()

	// Series with three revisions: only the lowest XX survives.
	lowest := touch(t, dir, "AMIF-2025-TF2-AG-CALL-01.pdf")
	touch(t, dir, "AMIF-2025-TF2-AG-CALL-02.pdf")
	touch(t, dir, "AMIF-2025-TF2-AG-CALL-03.pdf")

	// A second, independent series.
	otherSeries := touch(t, dir, "CERV-2025-DAPHNE-AG-CALL-02.pdf")

	// Non-series call PDF: always included.
	plain := touch(t, dir, "general_call_conditions.pdf")

	// Excluded: no "call" in the name, wrong extension, a directory.
	touch(t, dir, "AMIF-2025-TF2-AG-GUIDE-01.pdf")
	touch(t, dir, "call_notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "call_archive.pdf"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := SelectCallPDFs(dir)
	if err != nil {
		t.Fatalf("SelectCallPDFs: %v", err)
	}

	want := []string{lowest, otherSeries, plain}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectCallPDFs = %v, want %v", got, want)
	}
}

func TestSelectCallPDFs_CaseInsensitiveMatching(t *testing.T) {
	dir := t.TempDir()
	lower := touch(t, dir, "amif-2025-tf2-ag-call-01.PDF")
	touch(t, dir, "AMIF-2025-TF2-AG-Call-02.pdf")

	got, err := SelectCallPDFs(dir)
	if err != nil {
		t.Fatalf("SelectCallPDFs: %v", err)
	}
	// Both spellings belong to the same series, so only the lowest stays.
	if len(got) != 1 || got[0] != lower {
		t.Errorf("SelectCallPDFs = %v, want [%s]", got, lower)
	}
}

func TestSelectCallPDFs_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := touch(t, dir, "call.pdf")
	if _, err := SelectCallPDFs(file); err == nil {
		t.Error("expected error for non-directory path")
	}
	if _, err := SelectCallPDFs(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestSelectCallPDFs_EmptyDirectory(t *testing.T) {
	got, err := SelectCallPDFs(t.TempDir())
	if err != nil {
		t.Fatalf("SelectCallPDFs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no files, got %v", got)
	}
}

func TestSeriesTitles(t *testing.T) {
	paths := []string{
		"/calls/AMIF-2025-TF2-AG-CALL-01.pdf",
		"/calls/general_call_conditions.pdf",
	}
	titles := SeriesTitles(paths)
	if len(titles) != 1 {
		t.Fatalf("expected 1 title, got %v", titles)
	}
	if titles[paths[0]] != "AMIF-2025-TF2-AG-CALL-01" {
		t.Errorf("title = %q", titles[paths[0]])
	}
}

func TestScrapeContent(t *testing.T) {
	stream := `BT /F1 12 Tf 72 700 Td (The maximum grant is EUR 500,000.) Tj ET
BT [ (Consor) -20 (tium composition: at least 3 entities.) ] TJ ET`

	got := scrapeContent(stream)
	want := "The maximum grant is EUR 500,000.\nConsortium composition: at least 3 entities."
	if got != want {
		t.Errorf("scrapeContent = %q, want %q", got, want)
	}
}

func TestScrapeContent_EscapesAndHex(t *testing.T) {
	stream := `BT (Budget \(indicative\): EUR\0401,000) Tj ET
BT <48656C6C6F> Tj ET`

	got := scrapeContent(stream)
	if got != "Budget (indicative): EUR 1,000\nHello" {
		t.Errorf("scrapeContent = %q", got)
	}
}
