package sales

import (
	"context"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
)

// ListAccounts returns one page of accounts
func (s *Service) ListAccounts(ctx context.Context, q AccountListQuery) (shared.Paginated[AccountResponse], error) {
	filter := sales.AccountFilter{
		Filter:       q.Filter(),
		ReferenceID:  q.ReferenceID,
		TSM:          q.TSM,
		Manager:      q.Manager,
		CompanyGroup: q.CompanyGroup,
		TypeClient:   q.TypeClient,
		Status:       sales.AccountStatus(q.Status),
	}
	accounts, total, err := s.accounts.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[AccountResponse]{}, err
	}
	return shared.NewPaginated(mapSlice(accounts, ToAccountResponse), total, filter.Page, filter.PageSize), nil
}

// GetAccount returns one account
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// CreateAccount registers a company under an agent. The caller owns it
// unless another reference ID is given.
func (s *Service) CreateAccount(ctx context.Context, actor string, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := sales.NewAccount(owner(req.ReferenceID, actor), req.CompanyName)
	if err != nil {
		return nil, err
	}

	// An agent may hold a company only once
	exists, err := s.accounts.ExistsByCompanyName(ctx, account.ReferenceID, account.CompanyName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyExists.WithMessage("Company already exists for this agent")
	}

	account.ContactPerson = req.ContactPerson
	account.ContactNumber = req.ContactNumber
	account.EmailAddress = req.EmailAddress
	account.TypeClient = req.TypeClient
	account.Address = req.Address
	account.Area = req.Area
	account.CompanyGroup = req.CompanyGroup
	account.TSM = req.TSM
	account.Manager = req.Manager
	for k, v := range req.Extra {
		account.Extra[k] = v
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToAccountResponse(account)
	return &response, nil
}

// UpdateAccount changes the provided fields. A stale version is rejected.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, req UpdateAccountRequest) (*AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != account.Version {
		return nil, shared.ErrConcurrencyConflict
	}

	if req.CompanyName != nil {
		account.CompanyName = *req.CompanyName
	}
	if req.ContactPerson != nil {
		account.ContactPerson = *req.ContactPerson
	}
	if req.ContactNumber != nil {
		account.ContactNumber = *req.ContactNumber
	}
	if req.EmailAddress != nil {
		account.EmailAddress = *req.EmailAddress
	}
	if req.TypeClient != nil {
		account.TypeClient = *req.TypeClient
	}
	if req.Address != nil {
		account.Address = *req.Address
	}
	if req.Area != nil {
		account.Area = *req.Area
	}
	if req.CompanyGroup != nil {
		account.CompanyGroup = *req.CompanyGroup
	}
	if req.Extra != nil {
		if account.Extra == nil {
			account.Extra = make(map[string]any, len(req.Extra))
		}
		for k, v := range req.Extra {
			account.Extra[k] = v
		}
	}
	if req.Status != nil {
		if err := account.SetStatus(sales.AccountStatus(*req.Status)); err != nil {
			return nil, err
		}
	} else {
		account.Touch()
	}

	if err := s.accounts.SaveWithLock(ctx, account); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	response := ToAccountResponse(account)
	return &response, nil
}
