package repositories

import "context"

// TransactionManager runs a function against a repository bound to a single
// storage transaction. The transaction commits when fn returns nil and rolls
// back when it returns an error, so multi-row writes (entry header plus lines,
// or a full reversal) are all-or-nothing.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(txRepo JournalEntryRepositoryFacade) error) error
}
