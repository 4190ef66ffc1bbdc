package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/date"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/store"
	"github.com/hance08/leaf/internal/validation"
	"github.com/shopspring/decimal"
)

type recordingMigrator struct {
	oldBase, newBase string
}

func (m *recordingMigrator) Migrate(_ context.Context, oldBase, newBase string) (*currency.MigrateResult, error) {
	m.oldBase, m.newBase = oldBase, newBase
	return &currency.MigrateResult{OldBase: oldBase, NewBase: newBase}, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "leaf.db"), os.DirFS(filepath.Join("..", "..")))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestService(t *testing.T) (*Service, *store.Store, *recordingMigrator) {
	t.Helper()
	s := newTestStore(t)
	m := &recordingMigrator{}
	return NewService(s, m, Config{DefaultCurrency: "usd", DefaultPeriod: "monthly"}), s, m
}

func TestAddNormalizesSign(t *testing.T) {
	svc, _, _ := newTestService(t)

	expense, err := svc.Transaction.Add(TransactionInput{
		Type:     "expense",
		Date:     date.MustParse("2025-02-01"),
		Amount:   decimal.RequireFromString("12.5"),
		Category: "guiltfree",
	})
	if err != nil {
		t.Fatalf("Add expense: %v", err)
	}
	if !expense.AmountBase.Equal(decimal.RequireFromString("-12.5")) {
		t.Errorf("expense amount = %s, want -12.5", expense.AmountBase)
	}
	if expense.Currency != "USD" || expense.FundingSource != "budget" || expense.ID == "" {
		t.Errorf("unexpected expense: %+v", expense)
	}
	if expense.CreatedAt == 0 || expense.CreatedAt != expense.UpdatedAt {
		t.Errorf("timestamps = %d/%d", expense.CreatedAt, expense.UpdatedAt)
	}

	income, err := svc.Transaction.Add(TransactionInput{
		Type:   "income",
		Date:   date.MustParse("2025-02-01"),
		Amount: decimal.RequireFromString("-1000"),
		Source: "Salary",
	})
	if err != nil {
		t.Fatalf("Add income: %v", err)
	}
	if !income.AmountBase.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("income amount = %s, want 1000", income.AmountBase)
	}
}

func TestAddRejectsInvalid(t *testing.T) {
	svc, s, _ := newTestService(t)
	_, err := svc.Transaction.Add(TransactionInput{
		Type:     "expense",
		Date:     date.MustParse("2025-02-01"),
		Amount:   decimal.NewFromInt(5),
		Category: "holiday",
	})
	if err == nil {
		t.Fatal("expected an error for an unknown category")
	}
	if list, _ := s.ListTransactions(); len(list) != 0 {
		t.Errorf("invalid transaction was stored")
	}
}

func TestEditAndDelete(t *testing.T) {
	svc, s, _ := newTestService(t)
	frozen := time.UnixMilli(5000)
	svc.Transaction.now = func() time.Time { return frozen }

	tx, err := svc.Transaction.Add(TransactionInput{
		Type: "expense", Date: date.MustParse("2025-02-01"), Amount: decimal.NewFromInt(10), Category: "fixed",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	amount := decimal.NewFromInt(25)
	note := "rent share"
	edited, err := svc.Transaction.Edit(tx.ID, TransactionPatch{Amount: &amount, Note: &note})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if !edited.AmountBase.Equal(decimal.NewFromInt(-25)) || edited.Note == nil || *edited.Note != note {
		t.Errorf("unexpected edit: %+v", edited)
	}
	if edited.UpdatedAt <= tx.UpdatedAt {
		t.Errorf("UpdatedAt not bumped: %d -> %d", tx.UpdatedAt, edited.UpdatedAt)
	}

	if err := svc.Transaction.Delete(tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Transaction.Get(tx.ID); !errors.Is(err, ErrTransactionDeleted) {
		t.Errorf("Get after delete: got %v", err)
	}
	raw, _ := s.GetTransaction(tx.ID)
	if !raw.Deleted || raw.UpdatedAt <= edited.UpdatedAt {
		t.Errorf("tombstone not written: %+v", raw)
	}
	list, _ := svc.Transaction.List(ListFilter{})
	if len(list) != 0 {
		t.Errorf("deleted transaction listed")
	}
	list, _ = svc.Transaction.List(ListFilter{IncludeDeleted: true})
	if len(list) != 1 {
		t.Errorf("IncludeDeleted listed %d", len(list))
	}
}

func TestListFilters(t *testing.T) {
	svc, _, _ := newTestService(t)
	add := func(typ, day, cat string) {
		t.Helper()
		_, err := svc.Transaction.Add(TransactionInput{
			Type: typ, Date: date.MustParse(day), Amount: decimal.NewFromInt(1), Category: cat,
		})
		if err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	add("income", "2025-01-05", "")
	add("expense", "2025-01-10", "fixed")
	add("expense", "2025-02-10", "guiltfree")
	add("savings", "2025-03-01", "save_big")

	tests := []struct {
		name string
		f    ListFilter
		want int
	}{
		{"all", ListFilter{}, 4},
		{"expenses", ListFilter{Type: "expense"}, 2},
		{"category", ListFilter{Category: "fixed"}, 1},
		{"january", ListFilter{From: date.MustParse("2025-01-01"), To: date.MustParse("2025-01-31")}, 2},
		{"limit", ListFilter{Limit: 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Transaction.List(tt.f)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d, want %d", len(got), tt.want)
			}
		})
	}

	newest, _ := svc.Transaction.List(ListFilter{Limit: 1})
	if newest[0].Date != date.MustParse("2025-03-01") {
		t.Errorf("newest first: got %s", newest[0].Date)
	}
}

func TestSettingsLoadCreatesDefaults(t *testing.T) {
	svc, s, _ := newTestService(t)
	got, err := svc.Settings.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.BaseCurrency != "USD" || got.Allocations != model.DefaultAllocations() {
		t.Errorf("unexpected defaults: %+v", got)
	}
	if _, err := s.GetSettings(); err != nil {
		t.Errorf("defaults not persisted: %v", err)
	}
}

func TestSettingsLoadBackfillBumpsUpdatedAt(t *testing.T) {
	svc, s, _ := newTestService(t)
	svc.Settings.now = func() time.Time { return time.UnixMilli(4000) }

	old := model.DefaultSettings("USD", 5000)
	old.EnabledSavings = nil
	if err := s.PutSettings(old); err != nil {
		t.Fatalf("PutSettings: %v", err)
	}

	got, err := svc.Settings.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.EnabledSavings == nil || got.UpdatedAt != 5001 {
		t.Errorf("backfill not stamped: savings=%v updatedAt=%d", got.EnabledSavings, got.UpdatedAt)
	}
	stored, _ := s.GetSettings()
	if stored.UpdatedAt != 5001 {
		t.Errorf("stored updatedAt = %d, want 5001", stored.UpdatedAt)
	}

	// Complete records are not rewritten.
	again, _ := svc.Settings.Load()
	if again.UpdatedAt != 5001 {
		t.Errorf("second load updatedAt = %d, want 5001", again.UpdatedAt)
	}
}

func TestSettingsUpdateValidatesAllocations(t *testing.T) {
	svc, _, _ := newTestService(t)
	before, _ := svc.Settings.Load()

	bad := model.Allocations{FixedPct: 70, InvestPct: 10, SaveBigPct: 10, SaveIrregularPct: 0, GuiltFreePct: 10}
	_, err := svc.Settings.Update(SettingsPatch{Allocations: &bad})
	var allocErr *validation.AllocationError
	if !errors.As(err, &allocErr) {
		t.Fatalf("got %v, want AllocationError", err)
	}

	after, _ := svc.Settings.Load()
	if after.Allocations != before.Allocations {
		t.Error("invalid allocations were saved")
	}

	good := model.Allocations{FixedPct: 50, InvestPct: 10, SaveBigPct: 10, SaveIrregularPct: 10, GuiltFreePct: 20}
	name := "Sam"
	updated, err := svc.Settings.Update(SettingsPatch{Allocations: &good, Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Allocations != good || updated.Name != "Sam" || updated.UpdatedAt <= before.UpdatedAt {
		t.Errorf("unexpected settings: %+v", updated)
	}
}

func TestChangeBaseCurrencyDelegates(t *testing.T) {
	svc, _, m := newTestService(t)
	if _, err := svc.Settings.ChangeBaseCurrency(context.Background(), "eur"); err != nil {
		t.Fatalf("ChangeBaseCurrency: %v", err)
	}
	if m.oldBase != "USD" || m.newBase != "EUR" {
		t.Errorf("migrator called with %s→%s", m.oldBase, m.newBase)
	}
	if _, err := svc.Settings.ChangeBaseCurrency(context.Background(), "QQQ"); err == nil {
		t.Error("unknown currency accepted")
	}
}

func TestBudgetSummary(t *testing.T) {
	svc, _, _ := newTestService(t)
	add := func(in TransactionInput) {
		t.Helper()
		in.Date = date.MustParse("2025-04-01")
		if _, err := svc.Transaction.Add(in); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	add(TransactionInput{Type: "income", Amount: decimal.NewFromInt(1000)})
	add(TransactionInput{Type: "expense", Amount: decimal.NewFromInt(300), Category: "fixed"})
	add(TransactionInput{Type: "expense", Amount: decimal.NewFromInt(200), Category: "guiltfree"})

	sum, err := svc.Budget.Summarize(ListFilter{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !sum.TotalIncome.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("total income = %s", sum.TotalIncome)
	}
	byKey := map[string]BucketSummary{}
	for _, b := range sum.Buckets {
		byKey[b.Key] = b
	}
	if fixed := byKey["fixed"]; !fixed.Allocated.Equal(decimal.NewFromInt(550)) || !fixed.Remaining.Equal(decimal.NewFromInt(250)) {
		t.Errorf("fixed = %+v", fixed)
	}
	if gf := byKey["guiltfree"]; !gf.Remaining.Equal(decimal.NewFromInt(-50)) || !gf.Overspent() {
		t.Errorf("guiltfree = %+v", gf)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.Transaction.Add(TransactionInput{
		Type: "income", Date: date.MustParse("2025-01-01"), Amount: decimal.NewFromInt(42),
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	var buf bytes.Buffer
	snap, err := svc.Backup.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if snap.Schema != 1 || len(snap.Transactions) != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	target, targetStore, _ := newTestService(t)
	_ = targetStore.SetWatermark("alice", 99)
	read, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if err := target.Backup.Import(read); err != nil {
		t.Fatalf("Import: %v", err)
	}

	list, _ := target.Transaction.List(ListFilter{})
	if len(list) != 1 || !list[0].AmountBase.Equal(decimal.NewFromInt(42)) || list[0].UpdatedAt != snap.Transactions[0].UpdatedAt {
		t.Errorf("imported transactions = %+v", list)
	}
	if wm, _ := targetStore.GetWatermark("alice"); wm != 0 {
		t.Errorf("watermark survived import: %d", wm)
	}
}

func TestReadSnapshotRejectsUnknownSchema(t *testing.T) {
	if _, err := ReadSnapshot(strings.NewReader(`{"schema": 2}`)); err == nil {
		t.Error("schema 2 accepted")
	}
}

func TestFindByPrefix(t *testing.T) {
	svc, _, _ := newTestService(t)

	a, err := svc.Transaction.Add(TransactionInput{Type: "income", Date: date.MustParse("2025-03-01"), Amount: decimal.NewFromInt(1), Source: "Salary"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	b, err := svc.Transaction.Add(TransactionInput{Type: "income", Date: date.MustParse("2025-03-02"), Amount: decimal.NewFromInt(2), Source: "Gift"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := svc.Transaction.Find(a.ID)
	if err != nil || got.ID != a.ID {
		t.Fatalf("Find full id: %v %v", got, err)
	}

	// Shortest prefix that tells the two uuids apart.
	n := 1
	for a.ID[:n] == b.ID[:n] {
		n++
	}
	got, err = svc.Transaction.Find(b.ID[:n])
	if err != nil || got.ID != b.ID {
		t.Fatalf("Find prefix: %v %v", got, err)
	}

	if _, err := svc.Transaction.Find(""); !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("empty prefix: got %v", err)
	}
	if _, err := svc.Transaction.Find("zzzz"); !errors.Is(err, store.ErrRecordNotFound) {
		t.Errorf("unknown prefix: got %v", err)
	}
}
