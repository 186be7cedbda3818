package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	receipts    ReceiptStorage
	dashboards  *DashboardCache
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	receipts ReceiptStorage,
	dashboards *DashboardCache,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		receipts:    receipts,
		dashboards:  dashboards,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	UserID         string
	Name           string
	OpeningBalance decimal.Decimal
}

// CreateAccount creates a new account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}
	if err := domain.ValidateOpeningBalance(input.OpeningBalance); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		UserID:         input.UserID,
		Name:           name,
		OpeningBalance: input.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.dashboards.Invalidate(ctx, input.UserID)

	return account, nil
}

// GetAccount retrieves an account with its current balance.
func (uc *AccountUseCase) GetAccount(ctx context.Context, userID, id string) (*domain.AccountSummary, error) {
	account, err := uc.accountRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.Amounts(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	summary := account.Summarize(domain.TallyByAccount(entries)[account.ID])
	return &summary, nil
}

// ListAccounts lists the user's accounts with their current balances.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, userID string) ([]domain.AccountSummary, error) {
	return listAccountSummaries(ctx, uc.accountRepo, uc.entryRepo, userID)
}

// UpdateAccountInput represents input for updating an account.
// Nil fields are left unchanged.
type UpdateAccountInput struct {
	UserID         string
	ID             string
	Name           *string
	OpeningBalance *decimal.Decimal
}

// UpdateAccount renames an account or changes its opening balance.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := domain.ValidateName(name); err != nil {
			return nil, err
		}
		account.Name = name
	}

	if input.OpeningBalance != nil {
		if err := domain.ValidateOpeningBalance(*input.OpeningBalance); err != nil {
			return nil, err
		}
		account.OpeningBalance = *input.OpeningBalance
	}

	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.dashboards.Invalidate(ctx, input.UserID)

	return account, nil
}

// DeleteAccount deletes an account together with its entries and their receipts.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, userID, id string) error {
	if _, err := uc.accountRepo.GetByID(ctx, userID, id); err != nil {
		return err
	}

	paths, err := uc.entryRepo.ReceiptPaths(ctx, userID, ReceiptScope{AccountID: id})
	if err != nil {
		return err
	}

	if err := uc.accountRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	removeReceipts(ctx, uc.receipts, paths)
	uc.dashboards.Invalidate(ctx, userID)

	return nil
}

func listAccountSummaries(ctx context.Context, accountRepo AccountRepository, entryRepo EntryRepository, userID string) ([]domain.AccountSummary, error) {
	accounts, err := accountRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := entryRepo.Amounts(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	tallies := domain.TallyByAccount(entries)
	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, a.Summarize(tallies[a.ID]))
	}

	return summaries, nil
}
