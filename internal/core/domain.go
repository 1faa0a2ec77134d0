package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// CategoryRef is a tagged reference from a transaction to a category.
	// The zero value means "uncategorized".
	CategoryRef struct {
		id string
	}

	// BudgetScope is a tagged reference from a budget to a category.
	// The zero value means "overall": the budget caps the whole month's expenses.
	BudgetScope struct {
		categoryID string
	}

	Transaction struct {
		ID            string
		OwnerID       string
		Amount        Money
		Type          TransactionType
		Date          time.Time
		Category      CategoryRef
		Description   string
		Notes         string
		PaymentMethod string
		CreatedAt     time.Time
		UpdatedAt     time.Time
	}

	Category struct {
		ID        string
		OwnerID   string
		Name      string
		Type      TransactionType
		Color     string // display token, opaque here
		ParentID  string // empty for top-level categories
		CreatedAt time.Time
	}

	Budget struct {
		ID        string
		OwnerID   string
		Amount    Money
		Month     string // month key, YYYY-MM
		Scope     BudgetScope
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidMonthKey = errors.New("invalid month key, expected YYYY-MM")
	ErrInvalidBudget   = errors.New("budget amount must be positive")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("type must be income or expense")
	ErrInvalidDate     = errors.New("date cannot be zero")
	ErrEmptyName       = errors.New("empty name")
	ErrDescriptionLong = errors.New("description too long (max 200 characters)")
	ErrUnknownCategory = errors.New("category does not exist")
	ErrCategoryType    = errors.New("category type does not allow this use")
)

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidMonthKey reports whether key matches the YYYY-MM pattern and names a
// real calendar month.
func ValidMonthKey(key string) bool {
	if !monthKeyPattern.MatchString(key) {
		return false
	}
	m := key[5:]
	return m >= "01" && m <= "12"
}

// CategoryID builds a reference to the category with the given id.
func CategoryID(id string) CategoryRef {
	return CategoryRef{id: id}
}

// IsUncategorized reports whether the transaction has no category.
func (r CategoryRef) IsUncategorized() bool { return r.id == "" }

// ID returns the referenced category id and whether one is set.
func (r CategoryRef) ID() (string, bool) { return r.id, r.id != "" }

// ScopeCategory builds a budget scope limited to one expense category.
func ScopeCategory(categoryID string) BudgetScope {
	return BudgetScope{categoryID: categoryID}
}

// IsOverall reports whether the budget covers all expense transactions.
func (s BudgetScope) IsOverall() bool { return s.categoryID == "" }

// CategoryID returns the scoped category id and whether the scope is set.
func (s BudgetScope) CategoryID() (string, bool) { return s.categoryID, s.categoryID != "" }

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(t.Description) > 200 {
		return ErrDescriptionLong
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Amount.Cents <= 0 {
		return ErrInvalidBudget
	}
	if !ValidMonthKey(b.Month) {
		return ErrInvalidMonthKey
	}
	return nil
}
