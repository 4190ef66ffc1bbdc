package syncer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hance08/leaf/internal/date"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/remote"
	"github.com/hance08/leaf/internal/store"
	"github.com/shopspring/decimal"
)

const user = "alice"

type clock struct{ ms int64 }

func (c *clock) now() time.Time { return time.UnixMilli(c.ms) }

type harness struct {
	engine *Engine
	local  *store.Store
	remote *remote.Memory
	clock  *clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	local, err := store.NewStore(filepath.Join(t.TempDir(), "leaf.db"), os.DirFS(filepath.Join("..", "..")))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = local.Close() })

	rm := remote.NewMemory()
	c := &clock{ms: 10_000}
	e := NewEngine(local, rm, nil, nil)
	e.now = c.now
	return &harness{engine: e, local: local, remote: rm, clock: c}
}

func tx(id, amount string, updatedAt int64) model.Transaction {
	return model.Transaction{
		ID:         id,
		Type:       "income",
		Date:       date.MustParse("2025-03-01"),
		AmountBase: decimal.RequireFromString(amount),
		Currency:   "USD",
		CreatedAt:  1,
		UpdatedAt:  updatedAt,
	}
}

func (h *harness) putLocal(t *testing.T, txs ...model.Transaction) {
	t.Helper()
	for i := range txs {
		if err := h.local.PutTransaction(&txs[i]); err != nil {
			t.Fatalf("PutTransaction: %v", err)
		}
	}
}

func (h *harness) putRemote(t *testing.T, txs ...model.Transaction) {
	t.Helper()
	rows := make([]remote.TransactionRow, 0, len(txs))
	for _, x := range txs {
		rows = append(rows, remote.NewTransactionRow(x))
	}
	if err := h.remote.UpsertTransactions(context.Background(), user, rows); err != nil {
		t.Fatalf("UpsertTransactions: %v", err)
	}
}

func (h *harness) remoteTx(t *testing.T, id string) (remote.TransactionRow, bool) {
	t.Helper()
	rows, err := h.remote.SelectTransactions(context.Background(), user)
	if err != nil {
		t.Fatalf("SelectTransactions: %v", err)
	}
	for _, r := range rows {
		if r.Transaction.ID == id {
			return r, true
		}
	}
	return remote.TransactionRow{}, false
}

func (h *harness) localTx(t *testing.T, id string) *model.Transaction {
	t.Helper()
	got, err := h.local.GetTransaction(id)
	if err != nil {
		t.Fatalf("GetTransaction(%s): %v", id, err)
	}
	return got
}

func (h *harness) watermark(t *testing.T) int64 {
	t.Helper()
	wm, err := h.local.GetWatermark(user)
	if err != nil {
		t.Fatalf("GetWatermark: %v", err)
	}
	return wm
}

func TestFirstSyncPushesLocalState(t *testing.T) {
	h := newHarness(t)
	if err := h.local.PutSettings(model.DefaultSettings("USD", 500)); err != nil {
		t.Fatalf("PutSettings: %v", err)
	}
	h.putLocal(t, tx("t1", "100", 600), tx("t2", "20", 700))

	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if res.HasConflicts() {
		t.Fatalf("unexpected conflicts: %+v", res.Conflicts)
	}
	if res.Pushed != 2 || !res.PushedSettings {
		t.Errorf("pushed = %d, settings = %v", res.Pushed, res.PushedSettings)
	}
	if res.Watermark != 10_000 || h.watermark(t) != 10_000 {
		t.Errorf("watermark = %d / %d, want 10000", res.Watermark, h.watermark(t))
	}
	if row, ok := h.remoteTx(t, "t1"); !ok || row.UpdatedAt != 600 {
		t.Errorf("t1 not pushed with its timestamp: %+v", row)
	}
	rs, err := h.remote.SelectSettings(context.Background(), user)
	if err != nil || rs.UpdatedAt != 500 {
		t.Errorf("settings not pushed: %+v %v", rs, err)
	}
}

func TestSynchronizeIsIdempotent(t *testing.T) {
	h := newHarness(t)
	_ = h.local.PutSettings(model.DefaultSettings("USD", 500))
	h.putLocal(t, tx("t1", "100", 600))
	h.putRemote(t, tx("t2", "5", 800))

	if _, err := h.engine.Synchronize(context.Background(), user); err != nil {
		t.Fatalf("first Synchronize: %v", err)
	}
	before, _ := h.local.ListTransactions()

	h.clock.ms = 20_000
	for i := 0; i < 2; i++ {
		res, err := h.engine.Synchronize(context.Background(), user)
		if err != nil {
			t.Fatalf("Synchronize #%d: %v", i, err)
		}
		if res.HasConflicts() || res.Pulled != 0 || res.Pushed != 0 || res.PulledSettings || res.PushedSettings {
			t.Errorf("Synchronize #%d was not a no-op: %+v", i, res)
		}
	}

	after, _ := h.local.ListTransactions()
	if len(before) != len(after) {
		t.Fatalf("record count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].UpdatedAt != after[i].UpdatedAt {
			t.Errorf("%s updatedAt changed: %d -> %d", before[i].ID, before[i].UpdatedAt, after[i].UpdatedAt)
		}
	}
}

func TestPullsRemoteOnlyAndNewerRecords(t *testing.T) {
	h := newHarness(t)
	_ = h.local.SetWatermark(user, 1000)
	h.putLocal(t, tx("t1", "1", 500))
	h.putRemote(t, tx("t1", "2", 900), tx("t3", "3", 4000))

	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if res.Pulled != 2 {
		t.Errorf("pulled = %d, want 2", res.Pulled)
	}
	if got := h.localTx(t, "t1"); !got.AmountBase.Equal(decimal.NewFromInt(2)) || got.UpdatedAt != 900 {
		t.Errorf("t1 not pulled: %+v", got)
	}
	if got := h.localTx(t, "t3"); got.UpdatedAt != 4000 {
		t.Errorf("t3 pulled with updatedAt %d, want 4000", got.UpdatedAt)
	}
}

func TestNoSilentLoss(t *testing.T) {
	h := newHarness(t)
	h.putLocal(t, tx("t1", "100", 600))
	if _, err := h.engine.Synchronize(context.Background(), user); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}

	edited := tx("t1", "150", 12_000)
	h.putLocal(t, edited)
	h.clock.ms = 13_000

	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if res.HasConflicts() {
		t.Fatalf("unexpected conflicts: %+v", res.Conflicts)
	}
	row, ok := h.remoteTx(t, "t1")
	if !ok || !row.Transaction.AmountBase.Equal(decimal.NewFromInt(150)) || row.UpdatedAt != 12_000 {
		t.Errorf("local edit missing on remote: %+v", row)
	}
}

func TestConflictScenarioResolvedRemote(t *testing.T) {
	h := newHarness(t)
	_ = h.local.SetWatermark(user, 1000)
	h.putLocal(t, tx("t1", "100", 5000))
	h.putRemote(t, tx("t1", "90", 6000))

	h.clock.ms = 6500
	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if !res.HasConflicts() || len(res.Conflicts.Transactions) != 1 || res.Conflicts.Transactions[0].ID != "t1" {
		t.Fatalf("want t1 conflict, got %+v", res.Conflicts)
	}
	c := res.Conflicts.Transactions[0]
	if !c.Local.AmountBase.Equal(decimal.NewFromInt(100)) || !c.Remote.AmountBase.Equal(decimal.NewFromInt(90)) {
		t.Errorf("snapshots wrong: %+v", c)
	}

	// Neither side is overwritten before Resolve.
	if got := h.localTx(t, "t1"); !got.AmountBase.Equal(decimal.NewFromInt(100)) {
		t.Errorf("local overwritten before resolve: %s", got.AmountBase)
	}
	if row, _ := h.remoteTx(t, "t1"); !row.Transaction.AmountBase.Equal(decimal.NewFromInt(90)) {
		t.Errorf("remote overwritten before resolve: %s", row.Transaction.AmountBase)
	}
	if h.watermark(t) != 1000 {
		t.Errorf("watermark advanced with conflicts pending: %d", h.watermark(t))
	}
	if _, ok := h.engine.Pending(user); !ok {
		t.Fatal("conflict set not kept pending")
	}

	h.clock.ms = 7000
	rr, err := h.engine.Resolve(context.Background(), user, ChoiceNone, map[string]Choice{"t1": ChoiceRemote})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rr.TookRemote != 1 || rr.Watermark != 7000 {
		t.Errorf("unexpected resolve result: %+v", rr)
	}
	if got := h.localTx(t, "t1"); !got.AmountBase.Equal(decimal.NewFromInt(90)) || got.UpdatedAt != 6000 {
		t.Errorf("t1 = %+v, want remote snapshot", got)
	}
	if h.watermark(t) != 7000 {
		t.Errorf("watermark = %d, want 7000", h.watermark(t))
	}
	if _, ok := h.engine.Pending(user); ok {
		t.Error("pending set not cleared after resolve")
	}

	h.clock.ms = 8000
	res, err = h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize after resolve: %v", err)
	}
	if res.HasConflicts() {
		t.Errorf("conflicts after resolve: %+v", res.Conflicts)
	}
}

func TestConflictWithholdsPushesUntilResolved(t *testing.T) {
	h := newHarness(t)
	_ = h.local.SetWatermark(user, 1000)
	h.putLocal(t, tx("t1", "100", 5000), tx("t2", "7", 5500))
	h.putRemote(t, tx("t1", "90", 6000))

	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if res.Pushed != 0 || res.Conflicts.DeferredPushes() != 1 {
		t.Errorf("pushed = %d, deferred = %d", res.Pushed, res.Conflicts.DeferredPushes())
	}
	if _, ok := h.remoteTx(t, "t2"); ok {
		t.Fatal("t2 pushed despite a conflict in the same attempt")
	}

	// Unlisted conflicts keep the local side.
	rr, err := h.engine.Resolve(context.Background(), user, ChoiceNone, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if rr.KeptLocal != 1 || rr.Pushed != 2 {
		t.Errorf("unexpected resolve result: %+v", rr)
	}
	if row, ok := h.remoteTx(t, "t1"); !ok || !row.Transaction.AmountBase.Equal(decimal.NewFromInt(100)) || row.UpdatedAt != 5000 {
		t.Errorf("t1 local not pushed: %+v", row)
	}
	if _, ok := h.remoteTx(t, "t2"); !ok {
		t.Error("deferred t2 never pushed")
	}
}

func TestSettingsConflict(t *testing.T) {
	h := newHarness(t)
	_ = h.local.SetWatermark(user, 1000)

	local := model.DefaultSettings("USD", 3000)
	local.Name = "laptop"
	_ = h.local.PutSettings(local)

	remoteSettings := model.DefaultSettings("USD", 4000)
	remoteSettings.Name = "phone"
	_ = h.remote.UpsertSettings(context.Background(), user, *remoteSettings, 4000)

	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if res.Conflicts.Settings == nil {
		t.Fatal("settings conflict not detected")
	}
	if res.Conflicts.Settings.Remote.Name != "phone" || res.Conflicts.Settings.RemoteUpdatedAt != 4000 {
		t.Errorf("unexpected remote snapshot: %+v", res.Conflicts.Settings)
	}

	if _, err := h.engine.Resolve(context.Background(), user, ChoiceRemote, nil); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	got, _ := h.local.GetSettings()
	if got.Name != "phone" || got.UpdatedAt != 4000 {
		t.Errorf("settings = %+v, want remote", got)
	}
}

func TestSettingsPulledWhenMissingLocally(t *testing.T) {
	h := newHarness(t)
	rs := model.DefaultSettings("JPY", 4000)
	_ = h.remote.UpsertSettings(context.Background(), user, *rs, 4000)

	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if !res.PulledSettings {
		t.Error("settings not pulled")
	}
	got, err := h.local.GetSettings()
	if err != nil || got.BaseCurrency != "JPY" {
		t.Errorf("local settings = %+v, %v", got, err)
	}
}

func TestTombstonesReplicate(t *testing.T) {
	h := newHarness(t)
	h.putLocal(t, tx("t1", "100", 600))
	if _, err := h.engine.Synchronize(context.Background(), user); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}

	deleted := tx("t1", "100", 11_000)
	deleted.Deleted = true
	h.putLocal(t, deleted)
	h.clock.ms = 12_000
	if _, err := h.engine.Synchronize(context.Background(), user); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if row, _ := h.remoteTx(t, "t1"); !row.Transaction.Deleted {
		t.Error("tombstone not pushed")
	}
}

type flakyRemote struct {
	remote.Store
	selectErr error
	onSelect  func()
}

func (f *flakyRemote) SelectTransactions(ctx context.Context, userID string) ([]remote.TransactionRow, error) {
	if f.onSelect != nil {
		f.onSelect()
	}
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.Store.SelectTransactions(ctx, userID)
}

func TestTransportFailureWritesNothing(t *testing.T) {
	h := newHarness(t)
	h.putRemote(t, tx("t9", "1", 500))
	h.engine.remote = &flakyRemote{Store: h.remote, selectErr: remote.ErrTransport}

	_, err := h.engine.Synchronize(context.Background(), user)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("got %v, want ErrTransport", err)
	}
	if h.watermark(t) != 0 {
		t.Errorf("watermark advanced: %d", h.watermark(t))
	}
	if list, _ := h.local.ListTransactions(); len(list) != 0 {
		t.Errorf("local store written: %d records", len(list))
	}
}

func TestAuthErrors(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.Synchronize(context.Background(), ""); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("empty user: got %v", err)
	}

	h.engine.remote = &flakyRemote{Store: h.remote, selectErr: remote.ErrUnauthorized}
	if _, err := h.engine.Synchronize(context.Background(), user); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("unauthorized remote: got %v", err)
	}
}

func TestSignOutMidSyncKeepsWatermark(t *testing.T) {
	h := newHarness(t)
	h.putLocal(t, tx("t1", "1", 500))
	h.engine.remote = &flakyRemote{Store: h.remote, onSelect: func() { h.engine.Discard(user) }}

	_, err := h.engine.Synchronize(context.Background(), user)
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("got %v, want ErrSessionClosed", err)
	}
	if h.watermark(t) != 0 {
		t.Errorf("watermark advanced after sign-out: %d", h.watermark(t))
	}
}

func TestCancelledContextKeepsWatermark(t *testing.T) {
	h := newHarness(t)
	h.putLocal(t, tx("t1", "1", 500))
	ctx, cancel := context.WithCancel(context.Background())
	h.engine.remote = &flakyRemote{Store: h.remote, onSelect: cancel}

	if _, err := h.engine.Synchronize(ctx, user); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("got %v, want ErrSessionClosed", err)
	}
	if h.watermark(t) != 0 {
		t.Errorf("watermark advanced after cancel: %d", h.watermark(t))
	}
}

func TestBusyGate(t *testing.T) {
	h := newHarness(t)
	release, err := h.engine.gate.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()

	if _, err := h.engine.Synchronize(context.Background(), user); !errors.Is(err, ErrBusy) {
		t.Errorf("Synchronize: got %v, want ErrBusy", err)
	}
	if _, err := h.engine.Resolve(context.Background(), user, ChoiceNone, nil); !errors.Is(err, ErrBusy) {
		t.Errorf("Resolve: got %v, want ErrBusy", err)
	}
}

func TestDiscardDropsPending(t *testing.T) {
	h := newHarness(t)
	_ = h.local.SetWatermark(user, 1000)
	h.putLocal(t, tx("t1", "100", 5000))
	h.putRemote(t, tx("t1", "90", 6000))

	if _, err := h.engine.Synchronize(context.Background(), user); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	h.engine.Discard(user)
	if _, err := h.engine.Resolve(context.Background(), user, ChoiceNone, nil); !errors.Is(err, ErrNoPendingConflicts) {
		t.Errorf("got %v, want ErrNoPendingConflicts", err)
	}

	// The next attempt recomputes the same conflict from scratch.
	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if len(res.Conflicts.Transactions) != 1 {
		t.Errorf("conflict not recomputed: %+v", res.Conflicts)
	}
}
