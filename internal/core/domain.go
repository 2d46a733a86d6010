package core

import "errors"

type (
	// User is a registered spender. Names are unique and trimmed.
	User struct {
		ID   int64
		Name string
	}

	// Category is a spending bucket. Names are unique and trimmed.
	Category struct {
		ID   int64
		Name string
	}

	// Expense is the denormalized read model: every record carries the
	// joined category and user names, never the bare foreign keys.
	Expense struct {
		ID        int64
		Date      string // ISO YYYY-MM-DD
		Title     string
		Amount    float64
		CreatedAt string
		Category  string
		User      string
	}

	// Filter is the conjunctive predicate set for expense queries.
	// Unset fields impose no constraint: empty string for dates, nil for
	// amounts, empty slice for categories, zero for user.
	Filter struct {
		MinDate     string
		MaxDate     string
		MinAmount   *float64
		MaxAmount   *float64
		CategoryIDs []int64
		UserID      int64
	}
)

var (
	ErrInvalidDate = errors.New("date must be a valid date in YYYY-MM-DD format")
	ErrNotNumeric  = errors.New("amount must be a valid number")
	ErrNotPositive = errors.New("amount must be positive")
	ErrEmptyField  = errors.New("cannot be empty")
)

// Empty reports whether the filter imposes no constraints at all.
func (f Filter) Empty() bool {
	return f.MinDate == "" && f.MaxDate == "" &&
		f.MinAmount == nil && f.MaxAmount == nil &&
		len(f.CategoryIDs) == 0 && f.UserID == 0
}
