package usecase

import (
	"context"
	"io"
	"time"

	"github.com/iho/fintrack/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// AccountRepository defines data access for accounts.
// Every lookup is scoped to the owning user.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, userID, id string) (*domain.Account, error)
	List(ctx context.Context, userID string) ([]*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, userID, id string) error
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, userID, id string) (*domain.Category, error)
	List(ctx context.Context, userID string, kind domain.Kind) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, userID, id string) error
}

// EntryRepository defines data access for entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, userID, id string) (*domain.Entry, error)
	Delete(ctx context.Context, userID, id string) error
	// List returns entries matching filter, newest first.
	List(ctx context.Context, userID string, filter domain.EntryFilter) ([]*domain.Entry, error)
	// ListBetween returns entries dated within [start, end], oldest first.
	ListBetween(ctx context.Context, userID string, start, end time.Time) ([]*domain.Entry, error)
	// Amounts returns the account, kind, amount and date of the user's
	// entries, limited to those dated strictly before *before when set.
	Amounts(ctx context.Context, userID string, before *time.Time) ([]*domain.Entry, error)
	// ReceiptPaths lists stored receipts of entries in an account or category.
	ReceiptPaths(ctx context.Context, userID string, scope ReceiptScope) ([]string, error)
}

// ReceiptScope selects the entries whose receipts are listed.
// Empty fields are ignored; all empty means every entry of the user.
type ReceiptScope struct {
	AccountID  string
	CategoryID string
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// ResetTokenStore keeps single-use password reset tokens.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Consume returns the user bound to token and invalidates it.
	Consume(ctx context.Context, token string) (string, error)
}

// ReceiptStorage stores entry receipt files.
type ReceiptStorage interface {
	Save(ctx context.Context, userID, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}

// ReportRenderer writes a report as a document.
type ReportRenderer interface {
	Render(w io.Writer, report *domain.Report) error
}

// Notifier delivers a notification to its recipient.
type Notifier interface {
	Send(ctx context.Context, notification *domain.Notification) error
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// MetricsRecorder records business metrics.
type MetricsRecorder interface {
	ReportGenerated(format domain.ReportFormat, elapsed time.Duration)
	EntryCreated(kind domain.Kind)
	AuthAttempt(success bool)
}

type nopMetrics struct{}

func (nopMetrics) ReportGenerated(domain.ReportFormat, time.Duration) {}
func (nopMetrics) EntryCreated(domain.Kind)                           {}
func (nopMetrics) AuthAttempt(bool)                                   {}

// NopMetrics is a MetricsRecorder that records nothing.
var NopMetrics MetricsRecorder = nopMetrics{}
