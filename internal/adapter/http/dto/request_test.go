package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

func TestLoginRequest_FallsBackToEmail(t *testing.T) {
	req := &LoginRequest{Email: "ana@example.com", Password: "secret"}
	if got := req.ToUseCaseInput(); got.Login != "ana@example.com" {
		t.Fatalf("expected email as login, got %+v", got)
	}

	req = &LoginRequest{Login: "ana", Email: "ana@example.com", Password: "secret"}
	if got := req.ToUseCaseInput(); got.Login != "ana" {
		t.Fatalf("expected explicit login to win, got %+v", got)
	}
}

func TestCreateCategoryRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateCategoryRequest{Name: "Mercado", Kind: "Expense", Color: "#ff0000"}

	got, err := req.ToUseCaseInput("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "user-1" || got.Kind != domain.KindExpense || got.Icon != "" {
		t.Fatalf("unexpected input %+v", got)
	}

	req.Kind = "transfer"
	if _, err := req.ToUseCaseInput("user-1"); !errors.Is(err, domain.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestUpdateCategoryRequest_KindOptional(t *testing.T) {
	name := "Casa"
	got, err := (&UpdateCategoryRequest{Name: &name}).ToUseCaseInput("user-1", "cat-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != nil || got.Name == nil || *got.Name != "Casa" || got.ID != "cat-1" {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestCreateEntryRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{name: "valid date", date: "2024-02-29"},
		{name: "missing date", date: "", wantErr: domain.ErrInvalidDate},
		{name: "wrong layout", date: "29/02/2024", wantErr: domain.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &CreateEntryRequest{
				AccountID:  "acc-1",
				CategoryID: "cat-1",
				Amount:     decimal.RequireFromString("10.50"),
				Date:       tt.date,
			}

			got, err := req.ToUseCaseInput("user-1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Date.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected date %v", got.Date)
			}
			if !got.Amount.Equal(decimal.RequireFromString("10.5")) || got.UserID != "user-1" {
				t.Fatalf("unexpected input %+v", got)
			}
		})
	}
}

func TestUpdateEntryRequest_ParsesOptionalDate(t *testing.T) {
	date := "2024-03-01"
	got, err := (&UpdateEntryRequest{Date: &date, RemoveReceipt: true}).ToUseCaseInput("user-1", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date == nil || got.Date.Day() != 1 || !got.RemoveReceipt {
		t.Fatalf("unexpected input %+v", got)
	}

	bad := "tomorrow"
	if _, err := (&UpdateEntryRequest{Date: &bad}).ToUseCaseInput("user-1", "e1"); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
