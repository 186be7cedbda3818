package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
	"github.com/iho/fintrack/internal/usecase/mocks"
)

type entryFixture struct {
	tx         *mocks.MockTransaction
	txManager  *mocks.MockTransactionManager
	retrier    *mocks.MockRetrier
	entries    *mocks.MockEntryRepository
	accounts   *mocks.MockAccountRepository
	categories *mocks.MockCategoryRepository
	receipts   *mocks.MockReceiptStorage
	cache      *mocks.MockCache
	idGen      *mocks.MockIDGenerator
	metrics    *mocks.MockMetricsRecorder
	uc         *usecase.EntryUseCase
}

func newEntryFixture(t *testing.T) *entryFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &entryFixture{
		tx:         mocks.NewMockTransaction(ctrl),
		txManager:  mocks.NewMockTransactionManager(ctrl),
		retrier:    mocks.NewMockRetrier(ctrl),
		entries:    mocks.NewMockEntryRepository(ctrl),
		accounts:   mocks.NewMockAccountRepository(ctrl),
		categories: mocks.NewMockCategoryRepository(ctrl),
		receipts:   mocks.NewMockReceiptStorage(ctrl),
		cache:      mocks.NewMockCache(ctrl),
		idGen:      mocks.NewMockIDGenerator(ctrl),
		metrics:    mocks.NewMockMetricsRecorder(ctrl),
	}

	f.retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, op func() error) error { return op() },
	).AnyTimes()
	f.tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()

	f.uc = usecase.NewEntryUseCase(
		f.txManager,
		f.retrier,
		f.entries,
		f.accounts,
		f.categories,
		f.receipts,
		usecase.NewDashboardCache(f.cache, time.Minute),
		f.idGen,
		f.metrics,
	)
	return f
}

func (f *entryFixture) expectOwnership(kind domain.Kind) {
	f.accounts.EXPECT().GetByID(gomock.Any(), "user-1", "acc-1").
		Return(&domain.Account{ID: "acc-1", UserID: "user-1", Name: "Nubank"}, nil)
	f.categories.EXPECT().GetByID(gomock.Any(), "user-1", "cat-1").
		Return(&domain.Category{ID: "cat-1", UserID: "user-1", Name: "Uber", Kind: kind, Icon: "bi bi-taxi-front-fill"}, nil)
}

func validEntryInput() usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		UserID:      "user-1",
		AccountID:   "acc-1",
		CategoryID:  "cat-1",
		Description: " Corrida ",
		Amount:      decimal.RequireFromString("23.90"),
		Date:        time.Date(2024, 3, 5, 15, 4, 0, 0, time.UTC),
	}
}

func TestEntryUseCase_CreateEntryCopiesKind(t *testing.T) {
	f := newEntryFixture(t)
	f.expectOwnership(domain.KindExpense)

	f.idGen.EXPECT().Generate().Return("entry-1")
	f.txManager.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.entries.EXPECT().Create(gomock.Any(), f.tx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ usecase.Transaction, e *domain.Entry) error {
			if e.Kind != domain.KindExpense {
				t.Errorf("expected kind copied from category, got %q", e.Kind)
			}
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected the insert to run under the transaction deadline")
			}
			return nil
		})
	f.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	f.metrics.EXPECT().EntryCreated(domain.KindExpense)
	f.cache.EXPECT().Delete(gomock.Any(), "dashboard:user-1").Return(nil)

	entry, err := f.uc.CreateEntry(context.Background(), validEntryInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Description != "Corrida" {
		t.Errorf("expected trimmed description, got %q", entry.Description)
	}
	if !entry.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected date truncated to the day, got %s", entry.Date)
	}
	if entry.CategoryName != "Uber" || entry.AccountName != "Nubank" {
		t.Errorf("expected display names to be filled, got %+v", entry)
	}
}

func TestEntryUseCase_CreateEntryValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*usecase.CreateEntryInput)
		expectError error
	}{
		{
			name:        "zero amount",
			mutate:      func(in *usecase.CreateEntryInput) { in.Amount = decimal.Zero },
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "sub-cent amount",
			mutate:      func(in *usecase.CreateEntryInput) { in.Amount = decimal.RequireFromString("0.005") },
			expectError: domain.ErrAmountPrecision,
		},
		{
			name:        "missing date",
			mutate:      func(in *usecase.CreateEntryInput) { in.Date = time.Time{} },
			expectError: domain.ErrInvalidDate,
		},
		{
			name:        "description too long",
			mutate:      func(in *usecase.CreateEntryInput) { in.Description = strings.Repeat("x", 256) },
			expectError: domain.ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEntryFixture(t)
			in := validEntryInput()
			tt.mutate(&in)

			_, err := f.uc.CreateEntry(context.Background(), in)
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestEntryUseCase_CreateEntryForeignAccount(t *testing.T) {
	f := newEntryFixture(t)

	f.accounts.EXPECT().GetByID(gomock.Any(), "user-1", "acc-1").Return(nil, domain.ErrAccountNotFound)

	_, err := f.uc.CreateEntry(context.Background(), validEntryInput())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestEntryUseCase_CreateEntryRemovesReceiptWhenInsertFails(t *testing.T) {
	f := newEntryFixture(t)
	f.expectOwnership(domain.KindExpense)

	f.idGen.EXPECT().Generate().Return("entry-1")
	f.receipts.EXPECT().Save(gomock.Any(), "user-1", "nota.pdf", gomock.Any()).Return("user-1/01-nota.pdf", nil)
	f.txManager.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.entries.EXPECT().Create(gomock.Any(), f.tx, gomock.Any()).Return(errors.New("insert failed"))
	f.receipts.EXPECT().Delete(gomock.Any(), "user-1/01-nota.pdf").Return(nil)

	in := validEntryInput()
	in.Receipt = &usecase.ReceiptUpload{Filename: "nota.pdf", Content: strings.NewReader("%PDF")}

	if _, err := f.uc.CreateEntry(context.Background(), in); err == nil {
		t.Fatal("expected error")
	}
}

func TestEntryUseCase_CreateEntryReceiptWriteFails(t *testing.T) {
	f := newEntryFixture(t)
	f.expectOwnership(domain.KindIncome)

	f.idGen.EXPECT().Generate().Return("entry-1")
	f.receipts.EXPECT().Save(gomock.Any(), "user-1", "nota.pdf", gomock.Any()).Return("", errors.New("disk full"))

	in := validEntryInput()
	in.Receipt = &usecase.ReceiptUpload{Filename: "nota.pdf", Content: strings.NewReader("%PDF")}

	if _, err := f.uc.CreateEntry(context.Background(), in); err == nil {
		t.Fatal("expected error")
	}
}

func TestEntryUseCase_UpdateEntryRecopiesKindOnCategoryChange(t *testing.T) {
	f := newEntryFixture(t)

	existing := &domain.Entry{
		ID: "entry-1", UserID: "user-1", AccountID: "acc-1", CategoryID: "cat-1",
		Kind: domain.KindExpense, Amount: decimal.NewFromInt(10), ReceiptPath: "user-1/old.png",
	}
	f.entries.EXPECT().GetByID(gomock.Any(), "user-1", "entry-1").Return(existing, nil)
	f.categories.EXPECT().GetByID(gomock.Any(), "user-1", "cat-2").
		Return(&domain.Category{ID: "cat-2", Name: "Salário", Kind: domain.KindIncome}, nil)
	f.receipts.EXPECT().Save(gomock.Any(), "user-1", "new.png", gomock.Any()).Return("user-1/new.png", nil)
	f.txManager.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.entries.EXPECT().Update(gomock.Any(), f.tx, existing).Return(nil)
	f.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	f.receipts.EXPECT().Delete(gomock.Any(), "user-1/old.png").Return(nil)
	f.cache.EXPECT().Delete(gomock.Any(), "dashboard:user-1").Return(nil)

	cat := "cat-2"
	entry, err := f.uc.UpdateEntry(context.Background(), usecase.UpdateEntryInput{
		UserID:     "user-1",
		ID:         "entry-1",
		CategoryID: &cat,
		Receipt:    &usecase.ReceiptUpload{Filename: "new.png", Content: strings.NewReader("png")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.Kind != domain.KindIncome {
		t.Errorf("expected kind income after category change, got %q", entry.Kind)
	}
	if entry.ReceiptPath != "user-1/new.png" {
		t.Errorf("expected new receipt path, got %q", entry.ReceiptPath)
	}
}

func TestEntryUseCase_UpdateEntryKeepsKindWithSameCategory(t *testing.T) {
	f := newEntryFixture(t)

	existing := &domain.Entry{ID: "entry-1", UserID: "user-1", CategoryID: "cat-1", Kind: domain.KindExpense, Amount: decimal.NewFromInt(10)}
	f.entries.EXPECT().GetByID(gomock.Any(), "user-1", "entry-1").Return(existing, nil)
	f.txManager.EXPECT().Begin(gomock.Any()).Return(f.tx, nil)
	f.entries.EXPECT().Update(gomock.Any(), f.tx, existing).DoAndReturn(
		func(ctx context.Context, _ usecase.Transaction, _ *domain.Entry) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected the update to run under the transaction deadline")
			}
			return nil
		})
	f.tx.EXPECT().Commit(gomock.Any()).Return(nil)
	f.cache.EXPECT().Delete(gomock.Any(), "dashboard:user-1").Return(nil)

	cat := "cat-1"
	amount := decimal.RequireFromString("12.34")
	entry, err := f.uc.UpdateEntry(context.Background(), usecase.UpdateEntryInput{
		UserID: "user-1", ID: "entry-1", CategoryID: &cat, Amount: &amount,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Kind != domain.KindExpense || !entry.Amount.Equal(amount) {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestEntryUseCase_ListEntriesValidatesFilter(t *testing.T) {
	f := newEntryFixture(t)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.ListEntries(context.Background(), "user-1", domain.EntryFilter{StartDate: &start, EndDate: &end})
	if !errors.Is(err, domain.ErrStartAfterEnd) {
		t.Fatalf("expected ErrStartAfterEnd, got %v", err)
	}

	_, err = f.uc.ListEntries(context.Background(), "user-1", domain.EntryFilter{Kind: "transfer"})
	if !errors.Is(err, domain.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}

	f.entries.EXPECT().List(gomock.Any(), "user-1", domain.EntryFilter{Kind: domain.KindIncome, Limit: 50}).
		Return([]*domain.Entry{{ID: "e1"}}, nil)

	entries, err := f.uc.ListEntries(context.Background(), "user-1", domain.EntryFilter{Kind: domain.KindIncome})
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one entry, got %v (%v)", entries, err)
	}
}

func TestEntryUseCase_DeleteEntryRemovesReceipt(t *testing.T) {
	f := newEntryFixture(t)

	f.entries.EXPECT().GetByID(gomock.Any(), "user-1", "entry-1").
		Return(&domain.Entry{ID: "entry-1", ReceiptPath: "user-1/r.jpg"}, nil)
	f.entries.EXPECT().Delete(gomock.Any(), "user-1", "entry-1").Return(nil)
	f.receipts.EXPECT().Delete(gomock.Any(), "user-1/r.jpg").Return(nil)
	f.cache.EXPECT().Delete(gomock.Any(), "dashboard:user-1").Return(nil)

	if err := f.uc.DeleteEntry(context.Background(), "user-1", "entry-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEntryUseCase_OpenReceipt(t *testing.T) {
	f := newEntryFixture(t)

	f.entries.EXPECT().GetByID(gomock.Any(), "user-1", "no-receipt").Return(&domain.Entry{ID: "no-receipt"}, nil)

	_, _, err := f.uc.OpenReceipt(context.Background(), "user-1", "no-receipt")
	if !errors.Is(err, domain.ErrReceiptNotFound) {
		t.Fatalf("expected ErrReceiptNotFound, got %v", err)
	}

	f.entries.EXPECT().GetByID(gomock.Any(), "user-1", "entry-1").
		Return(&domain.Entry{ID: "entry-1", ReceiptPath: "user-1/01HX-nota.pdf"}, nil)
	f.receipts.EXPECT().Open(gomock.Any(), "user-1/01HX-nota.pdf").Return(io.NopCloser(strings.NewReader("%PDF")), nil)

	rc, name, err := f.uc.OpenReceipt(context.Background(), "user-1", "entry-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	if name != "01HX-nota.pdf" {
		t.Errorf("expected base filename, got %q", name)
	}
}
