package syncer

import (
	"context"
	"errors"
	"testing"
)

func TestResolveWithoutPending(t *testing.T) {
	h := newHarness(t)
	if _, err := h.engine.Resolve(context.Background(), user, ChoiceNone, nil); !errors.Is(err, ErrNoPendingConflicts) {
		t.Errorf("got %v, want ErrNoPendingConflicts", err)
	}
}

func TestResolveRejectsInvalidChoices(t *testing.T) {
	h := newHarness(t)
	_ = h.local.SetWatermark(user, 1000)
	h.putLocal(t, tx("t1", "100", 5000))
	h.putRemote(t, tx("t1", "90", 6000))
	if _, err := h.engine.Synchronize(context.Background(), user); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}

	tests := []struct {
		name     string
		settings Choice
		txs      map[string]Choice
	}{
		{"unknown tx choice", ChoiceNone, map[string]Choice{"t1": "both"}},
		{"id not in conflict", ChoiceNone, map[string]Choice{"t2": ChoiceLocal}},
		{"settings choice without settings conflict", ChoiceRemote, nil},
		{"garbage settings choice", Choice("merge"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.engine.Resolve(context.Background(), user, tt.settings, tt.txs); !errors.Is(err, ErrInvalidChoice) {
				t.Errorf("got %v, want ErrInvalidChoice", err)
			}
		})
	}

	// Rejected calls leave the set pending and both sides untouched.
	if _, ok := h.engine.Pending(user); !ok {
		t.Error("pending set dropped by an invalid resolve")
	}
	if h.watermark(t) != 1000 {
		t.Errorf("watermark moved: %d", h.watermark(t))
	}
}

func TestResolveIsFinal(t *testing.T) {
	h := newHarness(t)
	_ = h.local.SetWatermark(user, 1000)
	h.putLocal(t, tx("a", "1", 5000), tx("b", "2", 5000), tx("c", "3", 5000))
	h.putRemote(t, tx("a", "10", 6000), tx("b", "20", 6000), tx("c", "30", 6000))

	h.clock.ms = 6500
	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if len(res.Conflicts.Transactions) != 3 {
		t.Fatalf("want 3 conflicts, got %d", len(res.Conflicts.Transactions))
	}

	h.clock.ms = 7000
	_, err = h.engine.Resolve(context.Background(), user, ChoiceNone, map[string]Choice{
		"a": ChoiceLocal,
		"b": ChoiceRemote,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	h.clock.ms = 9000
	res, err = h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if res.HasConflicts() || res.Pulled != 0 || res.Pushed != 0 {
		t.Errorf("resolved records came back: %+v", res)
	}

	for id, want := range map[string]string{"a": "1", "b": "20", "c": "3"} {
		local := h.localTx(t, id)
		row, _ := h.remoteTx(t, id)
		if local.AmountBase.String() != want || row.Transaction.AmountBase.String() != want {
			t.Errorf("%s: local %s remote %s, want %s", id, local.AmountBase, row.Transaction.AmountBase, want)
		}
	}
}

// A local edit withheld by a conflicted attempt reaches the remote through
// Resolve, and a remote edit made after the watermark moved is still pulled.
func TestResolvePushesDeferredThenPullsLaterRemoteEdit(t *testing.T) {
	h := newHarness(t)
	_ = h.local.SetWatermark(user, 1000)
	h.putLocal(t, tx("t1", "100", 5000), tx("t2", "7", 5500))
	h.putRemote(t, tx("t1", "90", 6000))

	h.clock.ms = 6500
	if _, err := h.engine.Synchronize(context.Background(), user); err != nil {
		t.Fatalf("Synchronize: %v", err)
	}

	h.clock.ms = 7000
	if _, err := h.engine.Resolve(context.Background(), user, ChoiceNone, map[string]Choice{"t1": ChoiceRemote}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if row, ok := h.remoteTx(t, "t2"); !ok || row.UpdatedAt != 5500 || row.Transaction.AmountBase.String() != "7" {
		t.Fatalf("deferred t2 not pushed: %+v", row)
	}
	if h.watermark(t) != 7000 {
		t.Fatalf("watermark = %d, want 7000", h.watermark(t))
	}

	h.putRemote(t, tx("t2", "8", 8000))
	h.clock.ms = 9000
	res, err := h.engine.Synchronize(context.Background(), user)
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if res.HasConflicts() || res.Pulled != 1 || res.Pushed != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
	if got := h.localTx(t, "t2"); got.AmountBase.String() != "8" || got.UpdatedAt != 8000 {
		t.Errorf("later remote edit not pulled: %+v", got)
	}
}
