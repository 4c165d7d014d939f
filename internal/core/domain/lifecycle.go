package domain

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/hoaworks/hoa_ledger_app/internal/apperrors"
)

const (
	eventPost    = "post"
	eventReverse = "reverse"
	eventDelete  = "delete"
)

// EntryLifecycle wraps a journal entry with its lifecycle state machine:
// draft -> posted -> reversed. Deletion is only legal from draft; posted and
// reversed entries are retained permanently for audit purposes.
type EntryLifecycle struct {
	entry *JournalEntry
	fsm   *fsm.FSM
}

// NewEntryLifecycle creates a state machine seeded from the entry's current status.
func NewEntryLifecycle(entry *JournalEntry) *EntryLifecycle {
	l := &EntryLifecycle{entry: entry}

	l.fsm = fsm.NewFSM(
		string(entry.Status),
		fsm.Events{
			{Name: eventPost, Src: []string{string(Draft)}, Dst: string(Posted)},
			{Name: eventReverse, Src: []string{string(Posted)}, Dst: string(Reversed)},
			// "deleted" is not a stored status; the transition only gates removal.
			{Name: eventDelete, Src: []string{string(Draft)}, Dst: "deleted"},
		},
		fsm.Callbacks{},
	)

	return l
}

// Post transitions the entry from draft to posted.
func (l *EntryLifecycle) Post(ctx context.Context) error {
	if !l.fsm.Can(eventPost) {
		return fmt.Errorf("%w: entry status is %s, expected %s", apperrors.ErrInvalidState, l.entry.Status, Draft)
	}
	if err := l.fsm.Event(ctx, eventPost); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
	}
	l.entry.Status = EntryStatus(l.fsm.Current())
	return nil
}

// Reverse transitions the entry from posted to reversed.
func (l *EntryLifecycle) Reverse(ctx context.Context) error {
	if !l.fsm.Can(eventReverse) {
		return fmt.Errorf("%w: entry status is %s, expected %s", apperrors.ErrInvalidState, l.entry.Status, Posted)
	}
	if err := l.fsm.Event(ctx, eventReverse); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidState, err)
	}
	l.entry.Status = EntryStatus(l.fsm.Current())
	return nil
}

// CanDelete reports whether the entry may be removed. Only drafts qualify.
func (l *EntryLifecycle) CanDelete() bool {
	return l.fsm.Can(eventDelete)
}
