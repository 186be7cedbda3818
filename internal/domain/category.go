package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Kind classifies a category or entry as money in or money out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// DefaultCategoryColor is assigned when a category is created without a color.
const DefaultCategoryColor = "#0d6efd"

var colorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Label returns the Portuguese display label used in reports.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Receita"
	case KindExpense:
		return "Despesa"
	default:
		return string(k)
	}
}

// Category groups entries of a single kind under a name, color and icon.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Kind      Kind
	Color     string
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory builds a validated category. An empty color falls back to
// DefaultCategoryColor and an empty icon is resolved from the name.
func NewCategory(id, userID, name string, kind Kind, color, icon string, now time.Time) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	if color == "" {
		color = DefaultCategoryColor
	}
	if err := ValidateColor(color); err != nil {
		return nil, err
	}

	c := &Category{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Kind:      kind,
		Color:     color,
		Icon:      strings.TrimSpace(icon),
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.EnsureIcon()

	return c, nil
}

// EnsureIcon assigns an icon from the name when none is set.
// An icon that is already set is left untouched.
func (c *Category) EnsureIcon() {
	if c.Icon == "" {
		c.Icon = ResolveIcon(c.Name)
	}
}

// ValidateColor checks that color is a #rgb or #rrggbb hex string.
func ValidateColor(color string) error {
	if !colorRegex.MatchString(color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	return nil
}
