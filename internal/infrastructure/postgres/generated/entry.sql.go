package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createEntry = `-- name: CreateEntry :exec
INSERT INTO entries (id, user_id, account_id, category_id, kind, description, amount, entry_date, receipt_path, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type CreateEntryParams struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	AccountID   string             `json:"account_id"`
	CategoryID  string             `json:"category_id"`
	Kind        string             `json:"kind"`
	Description string             `json:"description"`
	Amount      pgtype.Numeric     `json:"amount"`
	EntryDate   pgtype.Date        `json:"entry_date"`
	ReceiptPath string             `json:"receipt_path"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) error {
	_, err := q.db.Exec(ctx, createEntry,
		arg.ID,
		arg.UserID,
		arg.AccountID,
		arg.CategoryID,
		arg.Kind,
		arg.Description,
		arg.Amount,
		arg.EntryDate,
		arg.ReceiptPath,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteEntry = `-- name: DeleteEntry :execrows
DELETE FROM entries WHERE user_id = $1 AND id = $2
`

type DeleteEntryParams struct {
	UserID string `json:"user_id"`
	ID     string `json:"id"`
}

func (q *Queries) DeleteEntry(ctx context.Context, arg DeleteEntryParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteEntry, arg.UserID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

type EntryDetailRow struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	AccountID     string             `json:"account_id"`
	CategoryID    string             `json:"category_id"`
	Kind          string             `json:"kind"`
	Description   string             `json:"description"`
	Amount        pgtype.Numeric     `json:"amount"`
	EntryDate     pgtype.Date        `json:"entry_date"`
	ReceiptPath   string             `json:"receipt_path"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
	AccountName   string             `json:"account_name"`
	CategoryName  string             `json:"category_name"`
	CategoryColor string             `json:"category_color"`
	CategoryIcon  string             `json:"category_icon"`
}

func scanEntryDetail(row interface{ Scan(...interface{}) error }) (EntryDetailRow, error) {
	var i EntryDetailRow
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.AccountID,
		&i.CategoryID,
		&i.Kind,
		&i.Description,
		&i.Amount,
		&i.EntryDate,
		&i.ReceiptPath,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.AccountName,
		&i.CategoryName,
		&i.CategoryColor,
		&i.CategoryIcon,
	)
	return i, err
}

const getEntry = `-- name: GetEntry :one
SELECT e.id, e.user_id, e.account_id, e.category_id, e.kind, e.description, e.amount, e.entry_date, e.receipt_path, e.created_at, e.updated_at,
    a.name AS account_name, c.name AS category_name, c.color AS category_color, c.icon AS category_icon
FROM entries e
JOIN accounts a ON a.id = e.account_id
JOIN categories c ON c.id = e.category_id
WHERE e.user_id = $1 AND e.id = $2
`

type GetEntryParams struct {
	UserID string `json:"user_id"`
	ID     string `json:"id"`
}

func (q *Queries) GetEntry(ctx context.Context, arg GetEntryParams) (EntryDetailRow, error) {
	row := q.db.QueryRow(ctx, getEntry, arg.UserID, arg.ID)
	return scanEntryDetail(row)
}

const listEntries = `-- name: ListEntries :many
SELECT e.id, e.user_id, e.account_id, e.category_id, e.kind, e.description, e.amount, e.entry_date, e.receipt_path, e.created_at, e.updated_at,
    a.name AS account_name, c.name AS category_name, c.color AS category_color, c.icon AS category_icon
FROM entries e
JOIN accounts a ON a.id = e.account_id
JOIN categories c ON c.id = e.category_id
WHERE e.user_id = $1
  AND ($2::DATE IS NULL OR e.entry_date >= $2::DATE)
  AND ($3::DATE IS NULL OR e.entry_date <= $3::DATE)
  AND ($4::TEXT = '' OR e.category_id = $4::TEXT)
  AND ($5::TEXT = '' OR e.kind = $5::TEXT)
ORDER BY e.entry_date DESC, e.created_at DESC, e.id DESC
LIMIT $6 OFFSET $7
`

type ListEntriesParams struct {
	UserID     string      `json:"user_id"`
	StartDate  pgtype.Date `json:"start_date"`
	EndDate    pgtype.Date `json:"end_date"`
	CategoryID string      `json:"category_id"`
	Kind       string      `json:"kind"`
	Limit      int32       `json:"limit"`
	Offset     int32       `json:"offset"`
}

func (q *Queries) ListEntries(ctx context.Context, arg ListEntriesParams) ([]EntryDetailRow, error) {
	rows, err := q.db.Query(ctx, listEntries,
		arg.UserID,
		arg.StartDate,
		arg.EndDate,
		arg.CategoryID,
		arg.Kind,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []EntryDetailRow{}
	for rows.Next() {
		i, err := scanEntryDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEntryAmounts = `-- name: ListEntryAmounts :many
SELECT id, account_id, kind, amount, entry_date
FROM entries
WHERE user_id = $1 AND ($2::DATE IS NULL OR entry_date < $2::DATE)
ORDER BY entry_date ASC, id ASC
`

type ListEntryAmountsParams struct {
	UserID string      `json:"user_id"`
	Before pgtype.Date `json:"before"`
}

type ListEntryAmountsRow struct {
	ID        string         `json:"id"`
	AccountID string         `json:"account_id"`
	Kind      string         `json:"kind"`
	Amount    pgtype.Numeric `json:"amount"`
	EntryDate pgtype.Date    `json:"entry_date"`
}

func (q *Queries) ListEntryAmounts(ctx context.Context, arg ListEntryAmountsParams) ([]ListEntryAmountsRow, error) {
	rows, err := q.db.Query(ctx, listEntryAmounts, arg.UserID, arg.Before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListEntryAmountsRow{}
	for rows.Next() {
		var i ListEntryAmountsRow
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Kind,
			&i.Amount,
			&i.EntryDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEntriesBetween = `-- name: ListEntriesBetween :many
SELECT e.id, e.user_id, e.account_id, e.category_id, e.kind, e.description, e.amount, e.entry_date, e.receipt_path, e.created_at, e.updated_at,
    a.name AS account_name, c.name AS category_name, c.color AS category_color, c.icon AS category_icon
FROM entries e
JOIN accounts a ON a.id = e.account_id
JOIN categories c ON c.id = e.category_id
WHERE e.user_id = $1 AND e.entry_date BETWEEN $2 AND $3
ORDER BY e.entry_date ASC, e.created_at ASC, e.id ASC
`

type ListEntriesBetweenParams struct {
	UserID    string      `json:"user_id"`
	StartDate pgtype.Date `json:"start_date"`
	EndDate   pgtype.Date `json:"end_date"`
}

func (q *Queries) ListEntriesBetween(ctx context.Context, arg ListEntriesBetweenParams) ([]EntryDetailRow, error) {
	rows, err := q.db.Query(ctx, listEntriesBetween, arg.UserID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []EntryDetailRow{}
	for rows.Next() {
		i, err := scanEntryDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listReceiptPaths = `-- name: ListReceiptPaths :many
SELECT receipt_path FROM entries
WHERE user_id = $1
  AND receipt_path <> ''
  AND ($2::TEXT = '' OR account_id = $2::TEXT)
  AND ($3::TEXT = '' OR category_id = $3::TEXT)
`

type ListReceiptPathsParams struct {
	UserID     string `json:"user_id"`
	AccountID  string `json:"account_id"`
	CategoryID string `json:"category_id"`
}

func (q *Queries) ListReceiptPaths(ctx context.Context, arg ListReceiptPathsParams) ([]string, error) {
	rows, err := q.db.Query(ctx, listReceiptPaths, arg.UserID, arg.AccountID, arg.CategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var receiptPath string
		if err := rows.Scan(&receiptPath); err != nil {
			return nil, err
		}
		items = append(items, receiptPath)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateEntry = `-- name: UpdateEntry :execrows
UPDATE entries
SET account_id = $3, category_id = $4, kind = $5, description = $6, amount = $7, entry_date = $8, receipt_path = $9, updated_at = $10
WHERE user_id = $1 AND id = $2
`

type UpdateEntryParams struct {
	UserID      string             `json:"user_id"`
	ID          string             `json:"id"`
	AccountID   string             `json:"account_id"`
	CategoryID  string             `json:"category_id"`
	Kind        string             `json:"kind"`
	Description string             `json:"description"`
	Amount      pgtype.Numeric     `json:"amount"`
	EntryDate   pgtype.Date        `json:"entry_date"`
	ReceiptPath string             `json:"receipt_path"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateEntry(ctx context.Context, arg UpdateEntryParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateEntry,
		arg.UserID,
		arg.ID,
		arg.AccountID,
		arg.CategoryID,
		arg.Kind,
		arg.Description,
		arg.Amount,
		arg.EntryDate,
		arg.ReceiptPath,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
