package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/hance08/leaf/internal/model"
	"github.com/shopspring/decimal"
)

func TestMemoryScopesByUser(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.SelectSettings(ctx, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SelectSettings on empty store: got %v, want ErrNotFound", err)
	}

	if err := m.UpsertSettings(ctx, "alice", *model.DefaultSettings("USD", 10), 10); err != nil {
		t.Fatalf("UpsertSettings: %v", err)
	}
	tx := model.Transaction{ID: "t1", Type: "income", AmountBase: decimal.NewFromInt(5), UpdatedAt: 20}
	if err := m.UpsertTransactions(ctx, "alice", []TransactionRow{NewTransactionRow(tx)}); err != nil {
		t.Fatalf("UpsertTransactions: %v", err)
	}

	if _, err := m.SelectSettings(ctx, "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob sees alice's settings: %v", err)
	}
	rows, err := m.SelectTransactions(ctx, "bob")
	if err != nil || len(rows) != 0 {
		t.Errorf("bob sees alice's transactions: %v %v", rows, err)
	}

	rows, err = m.SelectTransactions(ctx, "alice")
	if err != nil {
		t.Fatalf("SelectTransactions: %v", err)
	}
	if len(rows) != 1 || rows[0].UpdatedAt != 20 {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	note := "original"
	tx := model.Transaction{ID: "t1", Type: "income", Note: &note, UpdatedAt: 1}
	_ = m.UpsertTransactions(ctx, "alice", []TransactionRow{NewTransactionRow(tx)})

	rows, _ := m.SelectTransactions(ctx, "alice")
	*rows[0].Transaction.Note = "mutated"

	rows, _ = m.SelectTransactions(ctx, "alice")
	if *rows[0].Transaction.Note != "original" {
		t.Errorf("caller mutation leaked into store: %q", *rows[0].Transaction.Note)
	}
}

func TestMemoryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	if err := m.UpsertSettings(ctx, "alice", model.Settings{}, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
