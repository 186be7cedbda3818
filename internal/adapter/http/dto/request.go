package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// RegisterRequest represents a request to create a user.
type RegisterRequest struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	Name                 string `json:"name"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username:             r.Username,
		Email:                r.Email,
		Name:                 r.Name,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// LoginRequest represents a login request. Login accepts an email or a
// username; Email is kept for clients that only send the email.
type LoginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.LoginInput {
	login := r.Login
	if strings.TrimSpace(login) == "" {
		login = r.Email
	}
	return usecase.LoginInput{Login: login, Password: r.Password}
}

// PasswordResetRequest starts a password reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest completes a password reset.
type PasswordResetConfirmRequest struct {
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ToUseCaseInput converts to use case input.
func (r *PasswordResetConfirmRequest) ToUseCaseInput() usecase.ResetPasswordInput {
	return usecase.ResetPasswordInput{
		Token:                r.Token,
		NewPassword:          r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// UpdateProfileRequest represents a profile update. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateProfileRequest) ToUseCaseInput(userID string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		UserID:   userID,
		Name:     r.Name,
		Email:    r.Email,
		Currency: r.Currency,
	}
}

// ChangePasswordRequest represents a password change by a signed-in user.
type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	NewPassword          string `json:"new_password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ToUseCaseInput converts to use case input.
func (r *ChangePasswordRequest) ToUseCaseInput(userID string) usecase.ChangePasswordInput {
	return usecase.ChangePasswordInput{
		UserID:               userID,
		CurrentPassword:      r.CurrentPassword,
		NewPassword:          r.NewPassword,
		PasswordConfirmation: r.PasswordConfirmation,
	}
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(userID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		UserID:         userID,
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
	}
}

// UpdateAccountRequest represents an account update. Omitted fields are unchanged.
type UpdateAccountRequest struct {
	Name           *string          `json:"name,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(userID, id string) usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		UserID:         userID,
		ID:             id,
		Name:           r.Name,
		OpeningBalance: r.OpeningBalance,
	}
}

// CreateCategoryRequest represents a request to create a category.
// An empty icon is resolved from the name.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCategoryRequest) ToUseCaseInput(userID string) (usecase.CreateCategoryInput, error) {
	kind, err := domain.ParseKind(r.Kind)
	if err != nil {
		return usecase.CreateCategoryInput{}, err
	}
	return usecase.CreateCategoryInput{
		UserID: userID,
		Name:   r.Name,
		Kind:   kind,
		Color:  r.Color,
		Icon:   r.Icon,
	}, nil
}

// UpdateCategoryRequest represents a category update. Omitted fields are unchanged.
type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty"`
	Kind  *string `json:"kind,omitempty"`
	Color *string `json:"color,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCategoryRequest) ToUseCaseInput(userID, id string) (usecase.UpdateCategoryInput, error) {
	input := usecase.UpdateCategoryInput{
		UserID: userID,
		ID:     id,
		Name:   r.Name,
		Color:  r.Color,
		Icon:   r.Icon,
	}
	if r.Kind != nil {
		kind, err := domain.ParseKind(*r.Kind)
		if err != nil {
			return usecase.UpdateCategoryInput{}, err
		}
		input.Kind = &kind
	}
	return input, nil
}

// CreateEntryRequest represents a request to record an entry.
// Date is YYYY-MM-DD. The kind comes from the category.
type CreateEntryRequest struct {
	AccountID   string          `json:"account_id"`
	CategoryID  string          `json:"category_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntryRequest) ToUseCaseInput(userID string) (usecase.CreateEntryInput, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return usecase.CreateEntryInput{}, err
	}
	return usecase.CreateEntryInput{
		UserID:      userID,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		Description: r.Description,
		Amount:      r.Amount,
		Date:        date,
	}, nil
}

// UpdateEntryRequest represents an entry update. Omitted fields are unchanged.
type UpdateEntryRequest struct {
	AccountID     *string          `json:"account_id,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Date          *string          `json:"date,omitempty"`
	RemoveReceipt bool             `json:"remove_receipt,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput(userID, id string) (usecase.UpdateEntryInput, error) {
	input := usecase.UpdateEntryInput{
		UserID:        userID,
		ID:            id,
		AccountID:     r.AccountID,
		CategoryID:    r.CategoryID,
		Description:   r.Description,
		Amount:        r.Amount,
		RemoveReceipt: r.RemoveReceipt,
	}
	if r.Date != nil {
		date, err := ParseDate(*r.Date)
		if err != nil {
			return usecase.UpdateEntryInput{}, err
		}
		input.Date = &date
	}
	return input, nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.ErrInvalidDate
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}
