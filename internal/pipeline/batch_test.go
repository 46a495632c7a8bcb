package pipeline

import (
	"context"
	"testing"

	"github.com/nao1215/epubdiff/internal/config"
)

// TestProcessBatch tests concurrent comparison of multiple pairs.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	original := writeEPUB(t, "original.epub", validEntries())
	translated := writeEPUB(t, "translated.epub", validEntries())

	pairs := []config.Pair{
		{Original: original, Translated: translated},
		{Original: original, Translated: translated},
		{Original: original, Translated: translated},
	}

	bp := NewBatchProcessor(config.NewConfig(), WithConcurrency(2))
	reports, err := bp.ProcessBatch(context.Background(), pairs)
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}

	if len(reports) != len(pairs) {
		t.Fatalf("got %d reports, want %d", len(reports), len(pairs))
	}
	for i, report := range reports {
		if report == nil {
			t.Fatalf("report[%d] is nil", i)
		}
		if report.Error != nil {
			t.Errorf("report[%d] error: %v", i, report.Error)
		}
		if report.HasFindings() {
			t.Errorf("report[%d] has %d findings, want 0", i, report.TotalFindings())
		}
	}
}

// TestProcessBatchKeepsOrderOnFailure tests that an unopenable pair still
// occupies its slot in the results.
func TestProcessBatchKeepsOrderOnFailure(t *testing.T) {
	t.Parallel()

	original := writeEPUB(t, "original.epub", validEntries())
	translated := writeEPUB(t, "translated.epub", validEntries())

	pairs := []config.Pair{
		{Original: original, Translated: translated},
		{Original: "no/such/file.epub", Translated: translated},
	}

	bp := NewBatchProcessor(config.NewConfig())
	reports, err := bp.ProcessBatch(context.Background(), pairs)
	if err != nil {
		t.Fatalf("ProcessBatch returned error: %v", err)
	}

	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Error != nil {
		t.Errorf("first report error: %v", reports[0].Error)
	}
	if reports[1].Error == nil {
		t.Error("expected error recorded for unopenable pair")
	}
	if reports[1].OriginalPath != "no/such/file.epub" {
		t.Errorf("failed report original path = %q", reports[1].OriginalPath)
	}
}
