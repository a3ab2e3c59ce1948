package services

import (
	"context"
	"strings"
	"testing"

	"github.com/cjaradhye/money-minder/internal/core"
	"github.com/cjaradhye/money-minder/internal/entry"
)

func TestImportServicePartialImport(t *testing.T) {
	store := newFakeStore()
	store.categories = []core.Category{{ID: "cat-food", Name: "Food"}}
	txSvc := NewTransactionService(store, nil, nil)
	svc := NewImportService(store, txSvc)

	csvText := strings.Join([]string{
		"description,amount,type,date,category",
		"Lunch,250,EXPENSE,2026-02-05,Food",
		"Broken,abc,EXPENSE,2026-02-05,",
		"Salary,50000,INCOME,2026-02-01,",
	}, "\n")

	outcome, err := svc.Import(context.Background(), csvText)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if outcome.Imported != 2 {
		t.Fatalf("expected 2 imported rows, got %d", outcome.Imported)
	}
	if len(outcome.Errors) != 1 {
		t.Fatalf("expected 1 row error, got %+v", outcome.Errors)
	}
	if outcome.Errors[0].Row != 3 || outcome.Errors[0].Reason != entry.MissingAmount {
		t.Fatalf("unexpected row error: %+v", outcome.Errors[0])
	}

	if len(store.txns) != 2 {
		t.Fatalf("expected 2 persisted transactions, got %d", len(store.txns))
	}
	if store.txns[0].CategoryID != "cat-food" {
		t.Fatalf("expected Food category resolved, got %q", store.txns[0].CategoryID)
	}
}

func TestImportServiceAllRowsInvalid(t *testing.T) {
	store := newFakeStore()
	svc := NewImportService(store, NewTransactionService(store, nil, nil))

	outcome, err := svc.Import(context.Background(), "not,a,transaction\nfile,at,all")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if outcome.Imported != 0 {
		t.Fatalf("nothing should import, got %d", outcome.Imported)
	}
	if len(outcome.Errors) == 0 {
		t.Fatal("expected errors for a malformed document")
	}
	// The errors slice is never nil so the JSON shape stays stable.
	if outcome.Errors == nil {
		t.Fatal("errors must be an empty slice, not nil")
	}
}

func TestImportServiceSampleImportsCleanly(t *testing.T) {
	store := newFakeStore()
	svc := NewImportService(store, NewTransactionService(store, nil, nil))

	outcome, err := svc.Import(context.Background(), svc.Sample())
	if err != nil {
		t.Fatalf("sample import failed: %v", err)
	}
	if len(outcome.Errors) != 0 {
		t.Fatalf("sample must be fully valid, got %+v", outcome.Errors)
	}
	if outcome.Imported == 0 {
		t.Fatal("sample must produce at least one transaction")
	}
	if outcome.Imported != len(store.txns) {
		t.Fatalf("imported count %d does not match stored %d", outcome.Imported, len(store.txns))
	}
}
