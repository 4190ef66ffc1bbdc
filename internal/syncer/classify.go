package syncer

// Action is what one sync attempt does with a single record.
type Action int

const (
	ActionSkip Action = iota
	ActionPull
	ActionPush
	ActionConflict
)

func (a Action) String() string {
	switch a {
	case ActionPull:
		return "pull"
	case ActionPush:
		return "push"
	case ActionConflict:
		return "conflict"
	default:
		return "skip"
	}
}

// classify decides the action for a record present on both replicas.
// Both sides edited since the watermark with different timestamps is a
// conflict; equal timestamps are taken as the same edit.
func classify(localUpdated, remoteUpdated, watermark int64) Action {
	switch {
	case localUpdated > watermark && remoteUpdated > watermark && localUpdated != remoteUpdated:
		return ActionConflict
	case remoteUpdated > localUpdated:
		return ActionPull
	case localUpdated > remoteUpdated:
		return ActionPush
	default:
		return ActionSkip
	}
}
