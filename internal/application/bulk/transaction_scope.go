package bulk

import (
	"context"

	"github.com/sfa/backend/internal/domain/sales"
)

// TransactionScope runs a unit of work in one database transaction.
// Returning an error from fn rolls every change back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the record repositories bound to the open transaction
type TransactionalRepositories interface {
	Accounts() sales.AccountRepository
	Activities() sales.ActivityRepository
}
