package domain

import "errors"

var (
	// Not found errors. Rows owned by another user are reported the same way.
	ErrAccountNotFound  = errors.New("account not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrReceiptNotFound  = errors.New("receipt not found")

	// Entry errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidKind   = errors.New("kind must be income or expense")

	// Report errors
	ErrMissingDateRange  = errors.New("você deve selecionar o intervalo de datas")
	ErrInvalidDate       = errors.New("datas inválidas")
	ErrStartAfterEnd     = errors.New("a data de início não pode ser maior que a data de fim")
	ErrUnsupportedFormat = errors.New("unsupported report format")

	// Conflict errors
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)
