// Package services hosts the filter and aggregation engine. Write
// operations validate strictly and raise; view operations degrade to an
// empty result with a logged warning so interactive filtering stays
// forgiving. The two policies are deliberate and must not be merged.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"spend/internal/core"
	"spend/internal/events"
	"spend/internal/storage"
)

// ExpenseService orchestrates validation, name resolution, filtered
// fetches and summary computation over SQLite, with optional AMQP
// notifications after successful writes.
type ExpenseService struct {
	storage   *storage.SQLiteRepository
	publisher *events.Publisher
	resolve   singleflight.Group
}

func NewExpenseService(storage *storage.SQLiteRepository, publisher *events.Publisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

// Record validates the raw inputs, resolves the user and category names
// (creating either on first use) and inserts the expense. Any
// validation failure aborts before a write; a dangling reference at
// insert time aborts the insert. The user/category creations commit
// independently of the final insert.
func (s *ExpenseService) Record(ctx context.Context, date, categoryName, title, amount, userName string) (int64, error) {
	date, err := core.ValidateDate(date)
	if err != nil {
		return 0, err
	}
	amt, err := core.ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	title, err = core.ValidateNonEmpty(title, "Title")
	if err != nil {
		return 0, err
	}
	userName, err = core.ValidateNonEmpty(userName, "User name")
	if err != nil {
		return 0, err
	}
	categoryName, err = core.ValidateNonEmpty(categoryName, "Category")
	if err != nil {
		return 0, err
	}

	userID, err := s.resolveUser(ctx, userName)
	if err != nil {
		return 0, fmt.Errorf("resolve user %q: %w", userName, err)
	}
	categoryID, err := s.resolveCategory(ctx, categoryName)
	if err != nil {
		return 0, fmt.Errorf("resolve category %q: %w", categoryName, err)
	}

	id, err := s.storage.InsertExpense(ctx, date, categoryID, title, amt, userID)
	if err != nil {
		return 0, fmt.Errorf("record expense: %w", err)
	}

	s.publishRecorded(ctx, id, date, amt, categoryName, userName)

	return id, nil
}

// resolveUser returns the user id for a trimmed name, creating the user
// on first use. Concurrent in-process calls for the same name collapse
// into one storage round trip.
func (s *ExpenseService) resolveUser(ctx context.Context, name string) (int64, error) {
	v, err, _ := s.resolve.Do("user:"+name, func() (any, error) {
		id, created, err := s.storage.GetOrCreateUser(ctx, name)
		if err != nil {
			return int64(0), err
		}
		if created {
			slog.InfoContext(ctx, "Created new user", "user", name, "user_id", id)
		}
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (s *ExpenseService) resolveCategory(ctx context.Context, name string) (int64, error) {
	v, err, _ := s.resolve.Do("category:"+name, func() (any, error) {
		id, created, err := s.storage.GetOrCreateCategory(ctx, name)
		if err != nil {
			return int64(0), err
		}
		if created {
			slog.InfoContext(ctx, "Created new category", "category", name, "category_id", id)
		}
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (s *ExpenseService) publishRecorded(ctx context.Context, id int64, date string, amount float64, category, user string) {
	if s.publisher == nil {
		return
	}
	msg := events.NewExpenseRecordedMessage(id, date, amount, category, user)
	if err := s.publisher.PublishExpenseRecorded(ctx, msg); err != nil {
		// The expense is saved; notification failures never fail the write.
		slog.ErrorContext(ctx, "Failed to publish expense recorded message",
			"expense_id", id, "error", err)
	}
}

// ViewByDate returns expenses within the inclusive date range. Either
// bound may be empty. A malformed bound or min > max yields an empty
// list with a warning, never an error.
func (s *ExpenseService) ViewByDate(ctx context.Context, minDate, maxDate string) []core.Expense {
	var f core.Filter
	var err error

	if minDate != "" {
		if f.MinDate, err = core.ValidateDate(minDate); err != nil {
			slog.WarnContext(ctx, "Invalid start date for filter", "min_date", minDate, "error", err)
			return []core.Expense{}
		}
	}
	if maxDate != "" {
		if f.MaxDate, err = core.ValidateDate(maxDate); err != nil {
			slog.WarnContext(ctx, "Invalid end date for filter", "max_date", maxDate, "error", err)
			return []core.Expense{}
		}
	}
	if f.MinDate != "" && f.MaxDate != "" && f.MinDate > f.MaxDate {
		slog.WarnContext(ctx, "Start date after end date, no results",
			"min_date", f.MinDate, "max_date", f.MaxDate)
		return []core.Expense{}
	}

	return s.fetch(ctx, f)
}

// ViewByAmount returns expenses within the inclusive amount range.
// Negative bounds or min > max yield an empty list with a warning.
func (s *ExpenseService) ViewByAmount(ctx context.Context, minAmount, maxAmount *float64) []core.Expense {
	if minAmount != nil && *minAmount < 0 {
		slog.WarnContext(ctx, "Minimum amount cannot be negative", "min_amount", *minAmount)
		return []core.Expense{}
	}
	if maxAmount != nil && *maxAmount < 0 {
		slog.WarnContext(ctx, "Maximum amount cannot be negative", "max_amount", *maxAmount)
		return []core.Expense{}
	}
	if minAmount != nil && maxAmount != nil && *minAmount > *maxAmount {
		slog.WarnContext(ctx, "Minimum amount greater than maximum, no results",
			"min_amount", *minAmount, "max_amount", *maxAmount)
		return []core.Expense{}
	}

	return s.fetch(ctx, core.Filter{MinAmount: minAmount, MaxAmount: maxAmount})
}

// ViewByCategory returns expenses in any of the named categories.
// Names resolve case-insensitively; unknown names are warned about and
// dropped. When no name resolves the result is empty.
func (s *ExpenseService) ViewByCategory(ctx context.Context, names []string) []core.Expense {
	if len(names) == 0 {
		return []core.Expense{}
	}

	categories, err := s.storage.GetAllCategories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load categories for filter", "error", err)
		return []core.Expense{}
	}

	lookup := make(map[string]int64, len(categories))
	for _, c := range categories {
		lookup[strings.ToLower(c.Name)] = c.ID
	}

	var ids []int64
	var unknown []string
	for _, name := range names {
		if id, ok := lookup[strings.ToLower(strings.TrimSpace(name))]; ok {
			ids = append(ids, id)
		} else {
			unknown = append(unknown, name)
		}
	}

	if len(unknown) > 0 {
		slog.WarnContext(ctx, "Categories not found", "categories", strings.Join(unknown, ", "))
	}
	if len(ids) == 0 {
		slog.WarnContext(ctx, "No valid categories in filter")
		return []core.Expense{}
	}

	return s.fetch(ctx, core.Filter{CategoryIDs: ids})
}

// ViewByUser returns the expenses of a single user. Non-positive ids
// yield an empty list with a warning.
func (s *ExpenseService) ViewByUser(ctx context.Context, userID int64) []core.Expense {
	if userID <= 0 {
		slog.WarnContext(ctx, "User ID must be positive", "user_id", userID)
		return []core.Expense{}
	}
	return s.fetch(ctx, core.Filter{UserID: userID})
}

// AllExpenses returns every expense, most recent first.
func (s *ExpenseService) AllExpenses(ctx context.Context) []core.Expense {
	return s.fetch(ctx, core.Filter{})
}

func (s *ExpenseService) fetch(ctx context.Context, f core.Filter) []core.Expense {
	expenses, err := s.storage.FetchExpenses(ctx, f)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch expenses", "error", err)
		return []core.Expense{}
	}
	return expenses
}

// Summarize aggregates the given expenses; a nil slice means the full
// record set. An explicitly empty slice summarizes nothing.
func (s *ExpenseService) Summarize(ctx context.Context, expenses []core.Expense) core.Summary {
	if expenses == nil {
		expenses = s.AllExpenses(ctx)
	}
	return core.Summarize(expenses)
}

// ListUsers returns all users ordered by name.
func (s *ExpenseService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.storage.GetAllUsers(ctx)
}

// ListCategories returns all categories ordered by name.
func (s *ExpenseService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.storage.GetAllCategories(ctx)
}

// CreateUser adds a user explicitly (management path). Duplicate names
// fail with the storage integrity error.
func (s *ExpenseService) CreateUser(ctx context.Context, name string) (int64, error) {
	name, err := core.ValidateNonEmpty(name, "User name")
	if err != nil {
		return 0, err
	}
	return s.storage.CreateUser(ctx, name)
}

// CreateCategory adds a category explicitly (management path).
func (s *ExpenseService) CreateCategory(ctx context.Context, name string) (int64, error) {
	name, err := core.ValidateNonEmpty(name, "Category")
	if err != nil {
		return 0, err
	}
	return s.storage.CreateCategory(ctx, name)
}

// Close closes storage and the optional publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
