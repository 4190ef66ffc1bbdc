package syncer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hance08/leaf/internal/model"
)

// Choice is the user's decision for one conflict.
type Choice string

const (
	ChoiceNone   Choice = ""
	ChoiceLocal  Choice = "local"
	ChoiceRemote Choice = "remote"
)

// ParseChoice accepts "local", "remote" and, for settings, "none".
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ChoiceNone, nil
	case "local":
		return ChoiceLocal, nil
	case "remote":
		return ChoiceRemote, nil
	}
	return ChoiceNone, fmt.Errorf("%w: %q (want local or remote)", ErrInvalidChoice, s)
}

type SettingsConflict struct {
	Local           model.Settings
	Remote          model.Settings
	RemoteUpdatedAt int64
}

type TransactionConflict struct {
	ID     string
	Local  model.Transaction
	Remote model.Transaction
}

// ConflictSet is what one sync attempt could not decide on its own. It also
// carries the pushes that attempt withheld, so resolving it never has to
// re-read either replica.
type ConflictSet struct {
	UserID       string
	DetectedAt   int64
	Watermark    int64
	Settings     *SettingsConflict
	Transactions []TransactionConflict

	deferredSettings *model.Settings
	deferredPushes   []model.Transaction
}

func (c *ConflictSet) Len() int {
	if c == nil {
		return 0
	}
	n := len(c.Transactions)
	if c.Settings != nil {
		n++
	}
	return n
}

func (c *ConflictSet) Empty() bool { return c.Len() == 0 }

// DeferredPushes is the number of records pushed once the set is resolved.
func (c *ConflictSet) DeferredPushes() int {
	n := len(c.deferredPushes)
	if c.deferredSettings != nil {
		n++
	}
	return n
}

// Transaction returns the conflict for id.
func (c *ConflictSet) Transaction(id string) (TransactionConflict, bool) {
	for _, tc := range c.Transactions {
		if tc.ID == id {
			return tc, true
		}
	}
	return TransactionConflict{}, false
}

func (c *ConflictSet) sort() {
	sort.Slice(c.Transactions, func(i, j int) bool { return c.Transactions[i].ID < c.Transactions[j].ID })
}
