package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/postgres/generated"
	"github.com/iho/fintrack/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create creates a new entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := r.queries.WithTx(pgxTx)

	return queries.CreateEntry(ctx, generated.CreateEntryParams{
		ID:          entry.ID,
		UserID:      entry.UserID,
		AccountID:   entry.AccountID,
		CategoryID:  entry.CategoryID,
		Kind:        string(entry.Kind),
		Description: entry.Description,
		Amount:      decimalToNumeric(entry.Amount),
		EntryDate:   timeToPgDate(entry.Date),
		ReceiptPath: entry.ReceiptPath,
		CreatedAt:   timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(entry.UpdatedAt),
	})
}

// Update rewrites an entry within a transaction.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := r.queries.WithTx(pgxTx)

	n, err := queries.UpdateEntry(ctx, generated.UpdateEntryParams{
		UserID:      entry.UserID,
		ID:          entry.ID,
		AccountID:   entry.AccountID,
		CategoryID:  entry.CategoryID,
		Kind:        string(entry.Kind),
		Description: entry.Description,
		Amount:      decimalToNumeric(entry.Amount),
		EntryDate:   timeToPgDate(entry.Date),
		ReceiptPath: entry.ReceiptPath,
		UpdatedAt:   timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// GetByID retrieves an entry with its account and category names.
func (r *EntryRepository) GetByID(ctx context.Context, userID, id string) (*domain.Entry, error) {
	row, err := r.queries.GetEntry(ctx, generated.GetEntryParams{UserID: userID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, userID, id string) error {
	n, err := r.queries.DeleteEntry(ctx, generated.DeleteEntryParams{UserID: userID, ID: id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List returns entries matching filter, newest first.
func (r *EntryRepository) List(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.Entry, error) {
	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)

	rows, err := r.queries.ListEntries(ctx, generated.ListEntriesParams{
		UserID:     userID,
		StartDate:  optionalPgDate(filter.StartDate),
		EndDate:    optionalPgDate(filter.EndDate),
		CategoryID: filter.CategoryID,
		Kind:       string(filter.Kind),
		Limit:      int32(limit),
		Offset:     int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// ListBetween returns entries dated within [start, end], oldest first.
func (r *EntryRepository) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntriesBetween(ctx, generated.ListEntriesBetweenParams{
		UserID:    userID,
		StartDate: timeToPgDate(start),
		EndDate:   timeToPgDate(end),
	})
	if err != nil {
		return nil, err
	}

	return rowsToEntries(rows), nil
}

// Amounts returns the account, kind, amount and date of the user's entries,
// restricted to those dated strictly before *before when it is set.
func (r *EntryRepository) Amounts(ctx context.Context, userID string, before *time.Time) ([]*domain.Entry, error) {
	rows, err := r.queries.ListEntryAmounts(ctx, generated.ListEntryAmountsParams{
		UserID: userID,
		Before: optionalPgDate(before),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.Entry{
			ID:        row.ID,
			UserID:    userID,
			AccountID: row.AccountID,
			Kind:      domain.Kind(row.Kind),
			Amount:    numericToDecimal(row.Amount),
			Date:      row.EntryDate.Time,
		})
	}

	return entries, nil
}

// ReceiptPaths lists the stored receipts of the entries in scope.
func (r *EntryRepository) ReceiptPaths(ctx context.Context, userID string, scope usecase.ReceiptScope) ([]string, error) {
	return r.queries.ListReceiptPaths(ctx, generated.ListReceiptPathsParams{
		UserID:     userID,
		AccountID:  scope.AccountID,
		CategoryID: scope.CategoryID,
	})
}

func rowsToEntries(rows []generated.EntryDetailRow) []*domain.Entry {
	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries
}

func rowToEntry(row generated.EntryDetailRow) *domain.Entry {
	return &domain.Entry{
		ID:            row.ID,
		UserID:        row.UserID,
		AccountID:     row.AccountID,
		CategoryID:    row.CategoryID,
		Kind:          domain.Kind(row.Kind),
		Description:   row.Description,
		Amount:        numericToDecimal(row.Amount),
		Date:          row.EntryDate.Time,
		ReceiptPath:   row.ReceiptPath,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
		AccountName:   row.AccountName,
		CategoryName:  row.CategoryName,
		CategoryColor: row.CategoryColor,
		CategoryIcon:  row.CategoryIcon,
	}
}
