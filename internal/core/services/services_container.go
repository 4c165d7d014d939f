package services

import (
	portsrepo "github.com/hoaworks/hoa_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/hoaworks/hoa_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires the repository layer into the service facades
// consumed by the HTTP layer.
func NewServiceContainer(entryRepo portsrepo.JournalEntryRepositoryWithTx) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Ledger: NewLedgerService(entryRepo),
	}
}
