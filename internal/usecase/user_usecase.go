package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/fintrack/internal/domain"
)

// UserDeps holds dependencies for UserUseCase.
type UserDeps struct {
	UserRepo    UserRepository
	EntryRepo   EntryRepository
	Receipts    ReceiptStorage
	ResetTokens ResetTokenStore
	Notifier    Notifier
	Tokens      TokenIssuer
	IDGen       IDGenerator
	Metrics     MetricsRecorder
	// ResetURL is the page that accepts a reset token as its "token" query parameter.
	ResetURL string
}

// UserUseCase handles registration, authentication and profile management
type UserUseCase struct {
	userRepo    UserRepository
	entryRepo   EntryRepository
	receipts    ReceiptStorage
	resetTokens ResetTokenStore
	notifier    Notifier
	tokens      TokenIssuer
	idGen       IDGenerator
	metrics     MetricsRecorder
	resetURL    string
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(deps UserDeps) *UserUseCase {
	if deps.Metrics == nil {
		deps.Metrics = NopMetrics
	}
	return &UserUseCase{
		userRepo:    deps.UserRepo,
		entryRepo:   deps.EntryRepo,
		receipts:    deps.Receipts,
		resetTokens: deps.ResetTokens,
		notifier:    deps.Notifier,
		tokens:      deps.Tokens,
		idGen:       deps.IDGen,
		metrics:     deps.Metrics,
		resetURL:    deps.ResetURL,
	}
}

// RegisterInput represents input for registering a user
type RegisterInput struct {
	Username             string
	Email                string
	Name                 string
	Password             string
	PasswordConfirmation string
}

// Register creates a new user with a hashed password
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := domain.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if input.Password != input.PasswordConfirmation {
		return nil, domain.ErrPasswordMismatch
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if err := uc.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	_, err := uc.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domain.ErrUsernameTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uc.idGen.Generate(),
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		Currency:     domain.DefaultCurrency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.notify(ctx, domain.TemplateWelcome, user, map[string]string{
		"name":     displayName(user),
		"username": user.Username,
	})

	user.PasswordHash = ""
	return user, nil
}

// LoginInput represents authentication input. Login is an email or a username.
type LoginInput struct {
	Login    string
	Password string
}

// Login verifies credentials and issues an access token
func (uc *UserUseCase) Login(ctx context.Context, input LoginInput) (*domain.User, string, error) {
	user, err := uc.lookup(ctx, strings.TrimSpace(input.Login))
	if err != nil {
		uc.metrics.AuthAttempt(false)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrUnauthorized
		}
		return nil, "", err
	}

	if err := verifyPassword(user.PasswordHash, input.Password); err != nil {
		uc.metrics.AuthAttempt(false)
		return nil, "", domain.ErrUnauthorized
	}

	token, err := uc.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	uc.metrics.AuthAttempt(true)

	user.PasswordHash = ""
	return user, token, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateProfileInput represents input for updating a profile
type UpdateProfileInput struct {
	UserID   string
	Name     *string
	Email    *string
	Currency *string
}

// UpdateProfile updates name, email and display currency
func (uc *UserUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if err := domain.ValidateEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			if err := uc.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}

	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if err := domain.ValidateCurrency(currency); err != nil {
			return nil, err
		}
		user.Currency = currency
	}

	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// ChangePasswordInput represents input for changing a password
type ChangePasswordInput struct {
	UserID               string
	CurrentPassword      string
	NewPassword          string
	PasswordConfirmation string
}

// ChangePassword replaces the password after verifying the current one.
// Nothing is changed on any error.
func (uc *UserUseCase) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := uc.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := verifyPassword(user.PasswordHash, input.CurrentPassword); err != nil {
		return domain.ErrInvalidCurrentPassword
	}

	return uc.setPassword(ctx, user, input.NewPassword, input.PasswordConfirmation)
}

// DeleteUser deletes a user, everything they own and their receipt files.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	paths, err := uc.entryRepo.ReceiptPaths(ctx, id, ReceiptScope{})
	if err != nil {
		return err
	}

	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	removeReceipts(ctx, uc.receipts, paths)
	return nil
}

// RequestPasswordReset emails a reset link. Unknown addresses are ignored.
func (uc *UserUseCase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := uc.resetTokens.Save(ctx, token, user.ID, ResetTokenTTL); err != nil {
		return err
	}

	n := &domain.Notification{
		ID:        uc.idGen.Generate(),
		Template:  domain.TemplateResetPassword,
		Recipient: user.Email,
		Data: map[string]string{
			"name":      displayName(user),
			"reset_url": uc.resetLink(token),
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.notifier.Send(ctx, n); err != nil {
		return fmt.Errorf("send password reset: %w", err)
	}

	return nil
}

// ResetPasswordInput represents input for completing a password reset
type ResetPasswordInput struct {
	Token                string
	NewPassword          string
	PasswordConfirmation string
}

// ResetPassword sets a new password using a token from RequestPasswordReset
func (uc *UserUseCase) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if input.NewPassword != input.PasswordConfirmation {
		return domain.ErrPasswordMismatch
	}
	if err := domain.ValidatePassword(input.NewPassword); err != nil {
		return err
	}

	userID, err := uc.resetTokens.Consume(ctx, input.Token)
	if err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}

	return uc.setPassword(ctx, user, input.NewPassword, input.PasswordConfirmation)
}

func (uc *UserUseCase) setPassword(ctx context.Context, user *domain.User, password, confirmation string) error {
	if password != confirmation {
		return domain.ErrPasswordMismatch
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()

	return uc.userRepo.Update(ctx, user)
}

func (uc *UserUseCase) lookup(ctx context.Context, login string) (*domain.User, error) {
	if strings.Contains(login, "@") {
		return uc.userRepo.GetByEmail(ctx, strings.ToLower(login))
	}
	return uc.userRepo.GetByUsername(ctx, login)
}

func (uc *UserUseCase) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != selfID:
		return domain.ErrEmailTaken
	case err == nil, errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

func (uc *UserUseCase) resetLink(token string) string {
	u, err := url.Parse(uc.resetURL)
	if err != nil {
		return uc.resetURL + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// notify sends a notification and only logs delivery failures
func (uc *UserUseCase) notify(ctx context.Context, template string, user *domain.User, data map[string]string) {
	if uc.notifier == nil {
		return
	}

	n := &domain.Notification{
		ID:        uc.idGen.Generate(),
		Template:  template,
		Recipient: user.Email,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.notifier.Send(ctx, n); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("template", template).Msg("notification not sent")
	}
}

func displayName(user *domain.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Username
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
