package usecase

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// EntryUseCase handles entry business logic.
type EntryUseCase struct {
	txManager    TransactionManager
	retrier      Retrier
	entryRepo    EntryRepository
	accountRepo  AccountRepository
	categoryRepo CategoryRepository
	receipts     ReceiptStorage
	dashboards   *DashboardCache
	idGen        IDGenerator
	metrics      MetricsRecorder
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	retrier Retrier,
	entryRepo EntryRepository,
	accountRepo AccountRepository,
	categoryRepo CategoryRepository,
	receipts ReceiptStorage,
	dashboards *DashboardCache,
	idGen IDGenerator,
	metrics MetricsRecorder,
) *EntryUseCase {
	if metrics == nil {
		metrics = NopMetrics
	}
	return &EntryUseCase{
		txManager:    txManager,
		retrier:      retrier,
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		receipts:     receipts,
		dashboards:   dashboards,
		idGen:        idGen,
		metrics:      metrics,
	}
}

// ReceiptUpload is a receipt file supplied with an entry.
type ReceiptUpload struct {
	Filename string
	Content  io.Reader
}

// CreateEntryInput represents input for creating an entry.
type CreateEntryInput struct {
	UserID      string
	AccountID   string
	CategoryID  string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Receipt     *ReceiptUpload
}

// CreateEntry records an entry. Its kind is copied from the category.
// The receipt, if any, is stored first and removed again when the row cannot be written.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	description, err := domain.NormalizeDescription(input.Description)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, input.UserID, input.AccountID)
	if err != nil {
		return nil, err
	}
	category, err := uc.categoryRepo.GetByID(ctx, input.UserID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	entry := &domain.Entry{
		ID:            uc.idGen.Generate(),
		UserID:        input.UserID,
		AccountID:     account.ID,
		CategoryID:    category.ID,
		Kind:          category.Kind,
		Description:   description,
		Amount:        input.Amount,
		Date:          domain.DateOnly(input.Date),
		CreatedAt:     now,
		UpdatedAt:     now,
		AccountName:   account.Name,
		CategoryName:  category.Name,
		CategoryColor: category.Color,
		CategoryIcon:  category.Icon,
	}

	if input.Receipt != nil {
		p, err := uc.receipts.Save(ctx, input.UserID, input.Receipt.Filename, input.Receipt.Content)
		if err != nil {
			return nil, err
		}
		entry.ReceiptPath = p
	}

	err = uc.retrier.Retry(ctx, func() error {
		return runInTx(ctx, uc.txManager, func(txCtx context.Context, tx Transaction) error {
			return uc.entryRepo.Create(txCtx, tx, entry)
		})
	})
	if err != nil {
		if entry.HasReceipt() {
			removeReceipts(ctx, uc.receipts, []string{entry.ReceiptPath})
		}
		return nil, err
	}

	uc.metrics.EntryCreated(entry.Kind)
	uc.dashboards.Invalidate(ctx, input.UserID)

	return entry, nil
}

// GetEntry retrieves an entry by ID.
func (uc *EntryUseCase) GetEntry(ctx context.Context, userID, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, userID, id)
}

// ListEntries lists entries matching filter, newest first.
func (uc *EntryUseCase) ListEntries(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.Entry, error) {
	if filter.Kind != "" && !filter.Kind.IsValid() {
		return nil, domain.ErrInvalidKind
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, domain.ErrStartAfterEnd
	}

	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.entryRepo.List(ctx, userID, filter)
}

// UpdateEntryInput represents input for updating an entry.
// Nil fields are left unchanged.
type UpdateEntryInput struct {
	UserID        string
	ID            string
	AccountID     *string
	CategoryID    *string
	Description   *string
	Amount        *decimal.Decimal
	Date          *time.Time
	Receipt       *ReceiptUpload
	RemoveReceipt bool
}

// UpdateEntry updates an entry. The kind is copied again only when the category changes.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.Entry, error) {
	entry, err := uc.entryRepo.GetByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
		entry.Amount = *input.Amount
	}

	if input.Description != nil {
		description, err := domain.NormalizeDescription(*input.Description)
		if err != nil {
			return nil, err
		}
		entry.Description = description
	}

	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, domain.ErrInvalidDate
		}
		entry.Date = domain.DateOnly(*input.Date)
	}

	if input.AccountID != nil && *input.AccountID != entry.AccountID {
		account, err := uc.accountRepo.GetByID(ctx, input.UserID, *input.AccountID)
		if err != nil {
			return nil, err
		}
		entry.AccountID = account.ID
		entry.AccountName = account.Name
	}

	if input.CategoryID != nil && *input.CategoryID != entry.CategoryID {
		category, err := uc.categoryRepo.GetByID(ctx, input.UserID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		entry.CategoryID = category.ID
		entry.Kind = category.Kind
		entry.CategoryName = category.Name
		entry.CategoryColor = category.Color
		entry.CategoryIcon = category.Icon
	}

	oldReceipt := entry.ReceiptPath
	newReceipt := ""

	switch {
	case input.Receipt != nil:
		p, err := uc.receipts.Save(ctx, input.UserID, input.Receipt.Filename, input.Receipt.Content)
		if err != nil {
			return nil, err
		}
		newReceipt = p
		entry.ReceiptPath = p
	case input.RemoveReceipt:
		entry.ReceiptPath = ""
	}

	entry.UpdatedAt = time.Now().UTC()

	err = uc.retrier.Retry(ctx, func() error {
		return runInTx(ctx, uc.txManager, func(txCtx context.Context, tx Transaction) error {
			return uc.entryRepo.Update(txCtx, tx, entry)
		})
	})
	if err != nil {
		if newReceipt != "" {
			removeReceipts(ctx, uc.receipts, []string{newReceipt})
		}
		return nil, err
	}

	if oldReceipt != "" && oldReceipt != entry.ReceiptPath {
		removeReceipts(ctx, uc.receipts, []string{oldReceipt})
	}

	uc.dashboards.Invalidate(ctx, input.UserID)

	return entry, nil
}

// DeleteEntry deletes an entry and its receipt.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, userID, id string) error {
	entry, err := uc.entryRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := uc.entryRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if entry.HasReceipt() {
		removeReceipts(ctx, uc.receipts, []string{entry.ReceiptPath})
	}

	uc.dashboards.Invalidate(ctx, userID)

	return nil
}

// OpenReceipt opens the receipt attached to an entry.
// The caller must close the returned reader.
func (uc *EntryUseCase) OpenReceipt(ctx context.Context, userID, id string) (io.ReadCloser, string, error) {
	entry, err := uc.entryRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	if !entry.HasReceipt() {
		return nil, "", domain.ErrReceiptNotFound
	}

	rc, err := uc.receipts.Open(ctx, entry.ReceiptPath)
	if err != nil {
		return nil, "", err
	}

	return rc, path.Base(entry.ReceiptPath), nil
}

// runInTx runs fn inside a transaction bounded by DefaultTransactionTimeout.
// fn must use the context it is given.
func runInTx(ctx context.Context, txManager TransactionManager, fn func(ctx context.Context, tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// removeReceipts deletes stored receipt files. Failures leave an orphan file and are only logged.
func removeReceipts(ctx context.Context, storage ReceiptStorage, paths []string) {
	for _, p := range paths {
		if err := storage.Delete(ctx, p); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", p).Msg("failed to remove receipt")
		}
	}
}
