package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Currency:  u.Currency,
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts an account with no entries to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return AccountFromSummary(a.Summarize(domain.Tally{}))
}

// AccountFromSummary converts an account summary to response.
func AccountFromSummary(s domain.AccountSummary) *AccountResponse {
	return &AccountResponse{
		ID:             s.Account.ID,
		Name:           s.Account.Name,
		OpeningBalance: s.Account.OpeningBalance,
		Income:         s.Income,
		Expense:        s.Expense,
		Balance:        s.Balance,
		CreatedAt:      s.Account.CreatedAt,
		UpdatedAt:      s.Account.UpdatedAt,
	}
}

// AccountsFromSummaries converts account summaries to responses.
func AccountsFromSummaries(summaries []domain.AccountSummary) []*AccountResponse {
	result := make([]*AccountResponse, len(summaries))
	for i, s := range summaries {
		result[i] = AccountFromSummary(s)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	KindLabel string    `json:"kind_label"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryFromDomain converts a domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      string(c.Kind),
		KindLabel: c.Kind.Label(),
		Color:     c.Color,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// ListCategoriesResponse represents a list of categories.
type ListCategoriesResponse struct {
	Categories []*CategoryResponse `json:"categories"`
	Total      int64               `json:"total"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	AccountName   string          `json:"account_name,omitempty"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	CategoryColor string          `json:"category_color,omitempty"`
	CategoryIcon  string          `json:"category_icon,omitempty"`
	Kind          string          `json:"kind"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	HasReceipt    bool            `json:"has_receipt"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:            e.ID,
		AccountID:     e.AccountID,
		AccountName:   e.AccountName,
		CategoryID:    e.CategoryID,
		CategoryName:  e.CategoryName,
		CategoryColor: e.CategoryColor,
		CategoryIcon:  e.CategoryIcon,
		Kind:          string(e.Kind),
		Description:   e.Description,
		Amount:        e.Amount,
		Date:          e.Date.Format(domain.DateLayout),
		HasReceipt:    e.HasReceipt(),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse represents a page of entries.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// DashboardResponse represents the dashboard overview.
type DashboardResponse struct {
	TotalBalance  decimal.Decimal    `json:"total_balance"`
	TotalIncome   decimal.Decimal    `json:"total_income"`
	TotalExpense  decimal.Decimal    `json:"total_expense"`
	Accounts      []*AccountResponse `json:"accounts"`
	RecentEntries []*EntryResponse   `json:"recent_entries"`
}

// DashboardFromDomain converts a dashboard to response.
func DashboardFromDomain(d *domain.Dashboard) *DashboardResponse {
	return &DashboardResponse{
		TotalBalance:  d.TotalBalance,
		TotalIncome:   d.TotalIncome,
		TotalExpense:  d.TotalExpense,
		Accounts:      AccountsFromSummaries(d.Accounts),
		RecentEntries: EntriesFromDomain(d.RecentEntries),
	}
}

// ReportResponse is the JSON form of a report.
type ReportResponse struct {
	Title          string           `json:"title"`
	StartDate      string           `json:"start_date"`
	EndDate        string           `json:"end_date"`
	Currency       string           `json:"currency"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	Income         decimal.Decimal  `json:"income"`
	Expense        decimal.Decimal  `json:"expense"`
	ClosingBalance decimal.Decimal  `json:"closing_balance"`
	Formatted      ReportFormatted  `json:"formatted"`
	Entries        []*EntryResponse `json:"entries"`
}

// ReportFormatted holds the report totals formatted in the user's currency.
type ReportFormatted struct {
	OpeningBalance string `json:"opening_balance"`
	Income         string `json:"income"`
	Expense        string `json:"expense"`
	ClosingBalance string `json:"closing_balance"`
}

// ReportFromDomain converts a report to response.
func ReportFromDomain(r *domain.Report) *ReportResponse {
	return &ReportResponse{
		Title:          r.Title(),
		StartDate:      r.Period.Start.Format(domain.DateLayout),
		EndDate:        r.Period.End.Format(domain.DateLayout),
		Currency:       r.Currency,
		OpeningBalance: r.OpeningBalance,
		Income:         r.Income,
		Expense:        r.Expense,
		ClosingBalance: r.ClosingBalance,
		Formatted: ReportFormatted{
			OpeningBalance: r.Money(r.OpeningBalance),
			Income:         r.Money(r.Income),
			Expense:        r.Money(r.Expense),
			ClosingBalance: r.Money(r.ClosingBalance),
		},
		Entries: EntriesFromDomain(r.Entries),
	}
}

// ReportFormResponse describes the input a report request expects. It is
// returned instead of a document when no renderable format was selected.
type ReportFormResponse struct {
	Fields  []FormField `json:"fields"`
	Formats []string    `json:"formats"`
}

// FormField is one input of ReportFormResponse.
type FormField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Value    string `json:"value,omitempty"`
}

// NewReportForm builds the report form, echoing any values already supplied.
func NewReportForm(formats []domain.ReportFormat, startDate, endDate string) *ReportFormResponse {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return &ReportFormResponse{
		Fields: []FormField{
			{Name: "start_date", Type: "date", Required: true, Value: startDate},
			{Name: "end_date", Type: "date", Required: true, Value: endDate},
			{Name: "format", Type: "select", Required: true},
		},
		Formats: names,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
