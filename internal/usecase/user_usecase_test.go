package usecase_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

type stubUserRepo struct {
	createFn        func(ctx context.Context, user *domain.User) error
	getByIDFn       func(ctx context.Context, id string) (*domain.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	updateFn        func(ctx context.Context, user *domain.User) error
	deleteFn        func(ctx context.Context, id string) error
}

func (s *stubUserRepo) Create(ctx context.Context, user *domain.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, user)
	}
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if s.getByUsernameFn != nil {
		return s.getByUsernameFn(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, user *domain.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, user)
	}
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type stubNotifier struct {
	sent []*domain.Notification
	err  error
}

func (s *stubNotifier) Send(_ context.Context, n *domain.Notification) error {
	s.sent = append(s.sent, n)
	return s.err
}

type stubTokenStore struct {
	tokens map[string]string
}

func (s *stubTokenStore) Save(_ context.Context, token, userID string, _ time.Duration) error {
	if s.tokens == nil {
		s.tokens = map[string]string{}
	}
	s.tokens[token] = userID
	return nil
}

func (s *stubTokenStore) Consume(_ context.Context, token string) (string, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return "", domain.ErrInvalidResetToken
	}
	delete(s.tokens, token)
	return userID, nil
}

type stubIssuer struct{}

func (stubIssuer) Generate(user *domain.User) (string, error) {
	return "token-for-" + user.ID, nil
}

type seqIDGen struct{ n int }

func (g *seqIDGen) Generate() string {
	g.n++
	return "id-" + strings.Repeat("x", g.n)
}

func newUserUseCase(repo *stubUserRepo, notifier *stubNotifier, tokens *stubTokenStore) *usecase.UserUseCase {
	return usecase.NewUserUseCase(usecase.UserDeps{
		UserRepo:    repo,
		ResetTokens: tokens,
		Notifier:    notifier,
		Tokens:      stubIssuer{},
		IDGen:       &seqIDGen{},
		ResetURL:    "https://fintrack.example.com/reset-password",
	})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(hash)
}

func TestUserUseCase_Register_Success(t *testing.T) {
	t.Parallel()

	var stored *domain.User
	repo := &stubUserRepo{
		createFn: func(_ context.Context, user *domain.User) error {
			if user.PasswordHash == "" {
				t.Fatal("expected user to be persisted with hashed password")
			}
			copied := *user
			stored = &copied
			return nil
		},
	}
	notifier := &stubNotifier{}

	uc := newUserUseCase(repo, notifier, &stubTokenStore{})

	user, err := uc.Register(context.Background(), usecase.RegisterInput{
		Username:             "alice",
		Email:                "Alice@Example.com",
		Name:                 "Alice",
		Password:             "StrongPass1",
		PasswordConfirmation: "StrongPass1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored == nil {
		t.Fatal("expected user to be stored")
	}
	if stored.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", stored.Email)
	}
	if stored.Currency != "BRL" {
		t.Fatalf("expected default currency BRL, got %q", stored.Currency)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected returned user to hide password hash")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Template != domain.TemplateWelcome {
		t.Fatalf("expected welcome notification, got %+v", notifier.sent)
	}
}

func TestUserUseCase_Register_Errors(t *testing.T) {
	t.Parallel()

	taken := &domain.User{ID: "other"}

	tests := []struct {
		name        string
		repo        *stubUserRepo
		input       usecase.RegisterInput
		expectError error
	}{
		{
			name:        "invalid email",
			repo:        &stubUserRepo{},
			input:       usecase.RegisterInput{Username: "bob", Email: "invalid", Password: "StrongPass1", PasswordConfirmation: "StrongPass1"},
			expectError: domain.ErrInvalidEmail,
		},
		{
			name:        "confirmation mismatch",
			repo:        &stubUserRepo{},
			input:       usecase.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "StrongPass1", PasswordConfirmation: "StrongPass2"},
			expectError: domain.ErrPasswordMismatch,
		},
		{
			name:        "weak password",
			repo:        &stubUserRepo{},
			input:       usecase.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "weak", PasswordConfirmation: "weak"},
			expectError: domain.ErrPasswordTooWeak,
		},
		{
			name: "email taken",
			repo: &stubUserRepo{getByEmailFn: func(context.Context, string) (*domain.User, error) {
				return taken, nil
			}},
			input:       usecase.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "StrongPass1", PasswordConfirmation: "StrongPass1"},
			expectError: domain.ErrEmailTaken,
		},
		{
			name: "username taken",
			repo: &stubUserRepo{getByUsernameFn: func(context.Context, string) (*domain.User, error) {
				return taken, nil
			}},
			input:       usecase.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "StrongPass1", PasswordConfirmation: "StrongPass1"},
			expectError: domain.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUserUseCase(tt.repo, &stubNotifier{}, &stubTokenStore{})

			_, err := uc.Register(context.Background(), tt.input)
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestUserUseCase_Login(t *testing.T) {
	t.Parallel()

	hash := mustHash(t, "StrongPass1")
	user := func() *domain.User {
		return &domain.User{ID: "user-1", Username: "alice", Email: "alice@example.com", PasswordHash: hash}
	}
	repo := &stubUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "alice@example.com" {
				return user(), nil
			}
			return nil, domain.ErrUserNotFound
		},
		getByUsernameFn: func(_ context.Context, username string) (*domain.User, error) {
			if username == "alice" {
				return user(), nil
			}
			return nil, domain.ErrUserNotFound
		},
	}

	uc := newUserUseCase(repo, &stubNotifier{}, &stubTokenStore{})

	t.Run("by email", func(t *testing.T) {
		got, token, err := uc.Login(context.Background(), usecase.LoginInput{Login: "Alice@example.com", Password: "StrongPass1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "token-for-user-1" || got.PasswordHash != "" {
			t.Fatalf("unexpected login result %q %+v", token, got)
		}
	})

	t.Run("by username", func(t *testing.T) {
		if _, _, err := uc.Login(context.Background(), usecase.LoginInput{Login: "alice", Password: "StrongPass1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := uc.Login(context.Background(), usecase.LoginInput{Login: "alice", Password: "nope"})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := uc.Login(context.Background(), usecase.LoginInput{Login: "mallory", Password: "StrongPass1"})
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUserUseCase_ChangePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       usecase.ChangePasswordInput
		expectError error
	}{
		{
			name:        "wrong current password",
			input:       usecase.ChangePasswordInput{UserID: "user-1", CurrentPassword: "Wrong1234", NewPassword: "NewStrong1", PasswordConfirmation: "NewStrong1"},
			expectError: domain.ErrInvalidCurrentPassword,
		},
		{
			name:        "confirmation mismatch",
			input:       usecase.ChangePasswordInput{UserID: "user-1", CurrentPassword: "OldStrong1", NewPassword: "NewStrong1", PasswordConfirmation: "NewStrong2"},
			expectError: domain.ErrPasswordMismatch,
		},
		{
			name:  "success",
			input: usecase.ChangePasswordInput{UserID: "user-1", CurrentPassword: "OldStrong1", NewPassword: "NewStrong1", PasswordConfirmation: "NewStrong1"},
		},
	}

	hash := mustHash(t, "OldStrong1")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false
			repo := &stubUserRepo{
				getByIDFn: func(context.Context, string) (*domain.User, error) {
					return &domain.User{ID: "user-1", PasswordHash: hash}, nil
				},
				updateFn: func(_ context.Context, u *domain.User) error {
					updated = true
					if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(tt.input.NewPassword)) != nil {
						t.Fatal("expected new password hash")
					}
					return nil
				},
			}

			uc := newUserUseCase(repo, &stubNotifier{}, &stubTokenStore{})
			err := uc.ChangePassword(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				if updated {
					t.Fatal("expected no update on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !updated {
				t.Fatal("expected password to be updated")
			}
		})
	}
}

func TestUserUseCase_UpdateProfile(t *testing.T) {
	t.Parallel()

	repo := &stubUserRepo{
		getByIDFn: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: "alice@example.com", Currency: "BRL"}, nil
		},
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "taken@example.com" {
				return &domain.User{ID: "user-2"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	uc := newUserUseCase(repo, &stubNotifier{}, &stubTokenStore{})

	name, email, currency := "Alice Silva", "new@example.com", "usd"
	user, err := uc.UpdateProfile(context.Background(), usecase.UpdateProfileInput{
		UserID: "user-1", Name: &name, Email: &email, Currency: &currency,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Alice Silva" || user.Email != "new@example.com" || user.Currency != "USD" {
		t.Fatalf("unexpected profile %+v", user)
	}

	taken := "taken@example.com"
	if _, err := uc.UpdateProfile(context.Background(), usecase.UpdateProfileInput{UserID: "user-1", Email: &taken}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	bad := "XYZ"
	if _, err := uc.UpdateProfile(context.Background(), usecase.UpdateProfileInput{UserID: "user-1", Currency: &bad}); !errors.Is(err, domain.ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestUserUseCase_PasswordResetFlow(t *testing.T) {
	t.Parallel()

	var saved *domain.User
	repo := &stubUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "alice@example.com" {
				return &domain.User{ID: "user-1", Email: email, Username: "alice"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
		getByIDFn: func(context.Context, string) (*domain.User, error) {
			return &domain.User{ID: "user-1"}, nil
		},
		updateFn: func(_ context.Context, u *domain.User) error {
			saved = u
			return nil
		},
	}
	notifier := &stubNotifier{}
	tokens := &stubTokenStore{}
	uc := newUserUseCase(repo, notifier, tokens)

	if err := uc.RequestPasswordReset(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("expected unknown email to be accepted silently, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatal("expected no notification for unknown email")
	}

	if err := uc.RequestPasswordReset(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Template != domain.TemplateResetPassword {
		t.Fatalf("expected reset notification, got %+v", notifier.sent)
	}

	link, err := url.Parse(notifier.sent[0].Data["reset_url"])
	if err != nil {
		t.Fatalf("invalid reset url: %v", err)
	}
	token := link.Query().Get("token")
	if token == "" || link.Path != "/reset-password" {
		t.Fatalf("unexpected reset url %q", link)
	}

	err = uc.ResetPassword(context.Background(), usecase.ResetPasswordInput{Token: token, NewPassword: "Brand1New", PasswordConfirmation: "Brand1New"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || saved.PasswordHash == "" {
		t.Fatal("expected password to be stored")
	}

	err = uc.ResetPassword(context.Background(), usecase.ResetPasswordInput{Token: token, NewPassword: "Brand1New", PasswordConfirmation: "Brand1New"})
	if !errors.Is(err, domain.ErrInvalidResetToken) {
		t.Fatalf("expected token to be single-use, got %v", err)
	}
}

func TestUserUseCase_ResetPasswordMismatchKeepsToken(t *testing.T) {
	t.Parallel()

	tokens := &stubTokenStore{tokens: map[string]string{"tok": "user-1"}}
	uc := newUserUseCase(&stubUserRepo{}, &stubNotifier{}, tokens)

	err := uc.ResetPassword(context.Background(), usecase.ResetPasswordInput{Token: "tok", NewPassword: "Brand1New", PasswordConfirmation: "Other1New"})
	if !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if _, ok := tokens.tokens["tok"]; !ok {
		t.Fatal("expected token to survive a rejected attempt")
	}
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := usecase.HashPassword("StrongPass1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("StrongPass1")) != nil {
		t.Fatal("expected hash to verify")
	}
}
