package syncer

import (
	"context"
	"fmt"

	"github.com/hance08/leaf/internal/model"
)

// ResolveResult summarizes one Resolve call.
type ResolveResult struct {
	KeptLocal      int
	TookRemote     int
	SettingsChoice Choice
	Pushed         int
	Watermark      int64
}

// Resolve applies the user's decisions to the pending conflicts of userID.
// Unlisted conflicts, and a settings conflict with ChoiceNone, keep the
// local side. Every side effect comes from the snapshots captured when the
// conflicts were detected; neither replica is read again.
func (e *Engine) Resolve(ctx context.Context, userID string, settingsChoice Choice, txChoices map[string]Choice) (*ResolveResult, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}
	release, err := e.gate.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	cs, ok := e.Pending(userID)
	if !ok || cs == nil {
		return nil, ErrNoPendingConflicts
	}
	if err := validateChoices(cs, settingsChoice, txChoices); err != nil {
		return nil, err
	}

	sc := SyncContext{UserID: userID, Watermark: cs.Watermark, session: e.session(userID)}
	res := &ResolveResult{SettingsChoice: settingsChoice}

	var (
		pullSettings *model.Settings
		pushSettings = cs.deferredSettings
		pulls        []model.Transaction
		pushes       = append([]model.Transaction(nil), cs.deferredPushes...)
	)

	if c := cs.Settings; c != nil {
		if settingsChoice == ChoiceRemote {
			s := c.Remote.Clone()
			s.UpdatedAt = c.RemoteUpdatedAt
			pullSettings = &s
		} else {
			res.SettingsChoice = ChoiceLocal
			s := c.Local.Clone()
			pushSettings = &s
		}
	}

	for _, c := range cs.Transactions {
		if txChoices[c.ID] == ChoiceRemote {
			pulls = append(pulls, c.Remote.Clone())
			res.TookRemote++
		} else {
			pushes = append(pushes, c.Local.Clone())
			res.KeptLocal++
		}
	}

	if err := e.applyPulls(ctx, sc, pullSettings, pulls); err != nil {
		return nil, err
	}
	if err := e.push(ctx, sc, pushSettings, pushes); err != nil {
		return nil, err
	}
	res.Pushed = len(pushes)

	wm, err := e.advance(ctx, sc)
	if err != nil {
		return nil, err
	}
	res.Watermark = wm

	e.logger.Info("conflicts resolved",
		"user", userID, "kept_local", res.KeptLocal, "took_remote", res.TookRemote, "settings", string(res.SettingsChoice), "watermark", wm)
	return res, nil
}

func validateChoices(cs *ConflictSet, settingsChoice Choice, txChoices map[string]Choice) error {
	switch settingsChoice {
	case ChoiceNone, ChoiceLocal, ChoiceRemote:
	default:
		return fmt.Errorf("%w: settings choice %q", ErrInvalidChoice, settingsChoice)
	}
	if settingsChoice != ChoiceNone && cs.Settings == nil {
		return fmt.Errorf("%w: there is no settings conflict", ErrInvalidChoice)
	}
	for id, choice := range txChoices {
		if choice != ChoiceLocal && choice != ChoiceRemote {
			return fmt.Errorf("%w: %q for transaction %s", ErrInvalidChoice, choice, id)
		}
		if _, ok := cs.Transaction(id); !ok {
			return fmt.Errorf("%w: transaction %s is not in conflict", ErrInvalidChoice, id)
		}
	}
	return nil
}
