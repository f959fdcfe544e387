package services

import (
	"github.com/SscSPs/ledger_transfer_engine/internal/core/ports/publishers"
	portsrepo "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_transfer_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_transfer_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil, in which case committed transfers are not announced.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher publishers.EventPublisher) *portssvc.ServiceContainer {
	retry := RetryPolicy{
		MaxRetries: cfg.TransferMaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		MaxDelay:   cfg.RetryMaxDelay,
	}

	transferOptions := []TransferOption{WithRetryPolicy(retry)}
	if publisher != nil {
		transferOptions = append(transferOptions, WithEventPublisher(publisher))
	}

	return &portssvc.ServiceContainer{
		Account: NewAccountServiceImpl(
			repos.TxManager,
			repos.AccountRepo,
			repos.OwnerRepo,
			WithProvisioningAttempts(cfg.ProvisioningMaxAttempts),
			WithAccountRetryPolicy(retry),
		),
		Transfer: NewTransferService(repos.TxManager, repos.AccountRepo, repos.LedgerRepo, transferOptions...),
		Ledger:   NewLedgerQueryService(repos.AccountRepo, repos.LedgerRepo),
	}
}
