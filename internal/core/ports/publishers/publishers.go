package publishers

import (
	"context"

	"github.com/SscSPs/ledger_transfer_engine/internal/core/domain"
)

// EventPublisher delivers ledger notifications after the originating unit has committed.
type EventPublisher interface {
	// PublishTransferCompleted announces a committed transfer.
	PublishTransferCompleted(ctx context.Context, event domain.TransferCompleted) error

	// Close flushes pending messages and releases the underlying connection.
	Close() error
}
