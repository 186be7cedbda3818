package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

type categoryServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error)
	getFn    func(ctx context.Context, userID, id string) (*domain.Category, error)
	listFn   func(ctx context.Context, userID string, kind domain.Kind) ([]*domain.Category, error)
	updateFn func(ctx context.Context, input usecase.UpdateCategoryInput) (*domain.Category, error)
	deleteFn func(ctx context.Context, userID, id string) error
}

func (s *categoryServiceStub) CreateCategory(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error) {
	return s.createFn(ctx, input)
}

func (s *categoryServiceStub) GetCategory(ctx context.Context, userID, id string) (*domain.Category, error) {
	return s.getFn(ctx, userID, id)
}

func (s *categoryServiceStub) ListCategories(ctx context.Context, userID string, kind domain.Kind) ([]*domain.Category, error) {
	return s.listFn(ctx, userID, kind)
}

func (s *categoryServiceStub) UpdateCategory(ctx context.Context, input usecase.UpdateCategoryInput) (*domain.Category, error) {
	return s.updateFn(ctx, input)
}

func (s *categoryServiceStub) DeleteCategory(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

func TestCategoryHandler_Create(t *testing.T) {
	var captured usecase.CreateCategoryInput
	handler := NewCategoryHandler(&categoryServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error) {
			captured = input
			return &domain.Category{ID: "cat-1", Name: input.Name, Kind: input.Kind, Color: "#0d6efd", Icon: "bi bi-basket-fill"}, nil
		},
	})

	body, _ := json.Marshal(map[string]any{"name": "Mercado", "kind": "Expense"})
	req := withUser(httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.UserID != "user-1" || captured.Kind != domain.KindExpense {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.CategoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.KindLabel != "Despesa" || resp.Icon != "bi bi-basket-fill" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestCategoryHandler_CreateInvalidKind(t *testing.T) {
	handler := NewCategoryHandler(&categoryServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateCategoryInput) (*domain.Category, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	body, _ := json.Marshal(map[string]any{"name": "Pix", "kind": "transfer"})
	req := withUser(httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body)), "user-1")
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCategoryHandler_ListFiltersByKind(t *testing.T) {
	var gotKind domain.Kind
	handler := NewCategoryHandler(&categoryServiceStub{
		listFn: func(ctx context.Context, userID string, kind domain.Kind) ([]*domain.Category, error) {
			gotKind = kind
			return []*domain.Category{{ID: "c1", Kind: domain.KindIncome}}, nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/categories?kind=income", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotKind != domain.KindIncome {
		t.Fatalf("expected income filter, got %q", gotKind)
	}

	var resp dto.ListCategoriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 category, got %d", resp.Total)
	}
}

func TestCategoryHandler_GetNotFound(t *testing.T) {
	handler := NewCategoryHandler(&categoryServiceStub{
		getFn: func(ctx context.Context, userID, id string) (*domain.Category, error) {
			if id != "cat-9" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrCategoryNotFound
		},
	})

	req := withUser(httptest.NewRequest(http.MethodGet, "/categories/cat-9", nil), "user-1")
	req = setChiURLParam(req, "id", "cat-9")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCategoryHandler_UpdatePassesOptionalFields(t *testing.T) {
	var captured usecase.UpdateCategoryInput
	handler := NewCategoryHandler(&categoryServiceStub{
		updateFn: func(ctx context.Context, input usecase.UpdateCategoryInput) (*domain.Category, error) {
			captured = input
			return &domain.Category{ID: input.ID, Name: *input.Name, Kind: domain.KindExpense}, nil
		},
	})

	body, _ := json.Marshal(map[string]any{"name": "Feira"})
	req := withUser(httptest.NewRequest(http.MethodPut, "/categories/cat-1", bytes.NewReader(body)), "user-1")
	req = setChiURLParam(req, "id", "cat-1")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ID != "cat-1" || captured.Name == nil || *captured.Name != "Feira" || captured.Kind != nil || captured.Color != nil {
		t.Fatalf("unexpected input %+v", captured)
	}
}

func TestCategoryHandler_Delete(t *testing.T) {
	deleted := ""
	handler := NewCategoryHandler(&categoryServiceStub{
		deleteFn: func(ctx context.Context, userID, id string) error {
			deleted = userID + "/" + id
			return nil
		},
	})

	req := withUser(httptest.NewRequest(http.MethodDelete, "/categories/cat-1", nil), "user-1")
	req = setChiURLParam(req, "id", "cat-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent || deleted != "user-1/cat-1" {
		t.Fatalf("expected 204 deleting user-1/cat-1, got %d %q", rec.Code, deleted)
	}
}

type dashboardServiceStub struct {
	dashboard *domain.Dashboard
	err       error
}

func (s *dashboardServiceStub) GetDashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	return s.dashboard, s.err
}

func TestDashboardHandler_Get(t *testing.T) {
	acc := &domain.Account{ID: "acc-1", Name: "Banco", OpeningBalance: decimal.RequireFromString("10")}
	summaries := []domain.AccountSummary{acc.Summarize(domain.Tally{
		Income:  decimal.RequireFromString("5"),
		Expense: decimal.RequireFromString("2"),
	})}
	handler := NewDashboardHandler(&dashboardServiceStub{dashboard: domain.NewDashboard(summaries, nil)})

	rec := httptest.NewRecorder()
	handler.Get(rec, withUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "user-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.DashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.TotalBalance.Equal(decimal.RequireFromString("13")) || len(resp.Accounts) != 1 {
		t.Fatalf("unexpected dashboard %+v", resp)
	}
}

func TestDashboardHandler_RequiresUser(t *testing.T) {
	handler := NewDashboardHandler(&dashboardServiceStub{})

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
