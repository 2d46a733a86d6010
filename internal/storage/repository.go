package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spend/internal/core"

	_ "modernc.org/sqlite"
)

// Integrity errors. Callers branch on these with errors.Is; the
// distinguishing message survives wrapping.
var (
	ErrDuplicate        = errors.New("already exists")
	ErrInvalidReference = errors.New("invalid category_id or user_id")
)

// created_at layout: fixed width so lexicographic order matches
// chronological order under ORDER BY created_at DESC.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// SQLiteRepository is the storage accessor for users, categories and
// expenses. Construction runs migrations (schema plus the idempotent
// default-category seed) exactly once before first use.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateUser inserts a new user. Fails with ErrDuplicate if the name is
// taken.
func (r *SQLiteRepository) CreateUser(ctx context.Context, name string) (int64, error) {
	return r.createNamed(ctx, "users", "user", name)
}

// CreateCategory inserts a new category. Fails with ErrDuplicate if the
// name is taken.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string) (int64, error) {
	return r.createNamed(ctx, "categories", "category", name)
}

func (r *SQLiteRepository) createNamed(ctx context.Context, table, kind, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%s name %w", kind, core.ErrEmptyField)
	}

	res, err := r.db.ExecContext(ctx, "INSERT INTO "+table+" (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s %q %w", kind, name, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert %s: %w", kind, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", kind, err)
	}
	return id, nil
}

// GetOrCreateUser returns the id of the user with the given trimmed
// name, creating it when absent. Lookup and insert run in a single
// transaction so concurrent callers cannot race between the two steps.
// The boolean reports whether a new row was created.
func (r *SQLiteRepository) GetOrCreateUser(ctx context.Context, name string) (int64, bool, error) {
	return r.getOrCreateNamed(ctx, "users", "user", name)
}

// GetOrCreateCategory is the category counterpart of GetOrCreateUser.
func (r *SQLiteRepository) GetOrCreateCategory(ctx context.Context, name string) (int64, bool, error) {
	return r.getOrCreateNamed(ctx, "categories", "category", name)
}

func (r *SQLiteRepository) getOrCreateNamed(ctx context.Context, table, kind, name string) (int64, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false, fmt.Errorf("%s name %w", kind, core.ErrEmptyField)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE name = ?", name).Scan(&id)
	switch {
	case err == nil:
		if err := tx.Commit(); err != nil {
			return 0, false, fmt.Errorf("commit: %w", err)
		}
		return id, false, nil
	case errors.Is(err, sql.ErrNoRows):
		// fall through to insert
	default:
		return 0, false, fmt.Errorf("lookup %s: %w", kind, err)
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO "+table+" (name) VALUES (?)", name)
	if err != nil {
		if isUniqueViolation(err) {
			// A writer outside this transaction won the race.
			return 0, false, fmt.Errorf("%s %q %w", kind, name, ErrDuplicate)
		}
		return 0, false, fmt.Errorf("insert %s: %w", kind, err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("insert %s: %w", kind, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit: %w", err)
	}
	return id, true, nil
}

// GetUserByName looks up a user by exact, case-sensitive name. Returns
// (nil, nil) when no user matches.
func (r *SQLiteRepository) GetUserByName(ctx context.Context, name string) (*core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM users WHERE name = ?", name).
		Scan(&u.ID, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by name: %w", err)
	}
	return &u, nil
}

// GetCategoryByName looks up a category by exact, case-sensitive name.
// Returns (nil, nil) when no category matches.
func (r *SQLiteRepository) GetCategoryByName(ctx context.Context, name string) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM categories WHERE name = ?", name).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return &c, nil
}

// GetAllUsers returns all users ordered by name.
func (r *SQLiteRepository) GetAllUsers(ctx context.Context) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM users ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("get all users: %w", err)
	}
	defer rows.Close()

	users := make([]core.User, 0)
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetAllCategories returns all categories ordered by name.
func (r *SQLiteRepository) GetAllCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("get all categories: %w", err)
	}
	defer rows.Close()

	categories := make([]core.Category, 0)
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// InsertExpense writes a new expense row with a server-assigned
// creation timestamp. Title and amount are re-checked here even though
// the service validates first. A dangling category or user reference
// fails with ErrInvalidReference regardless of which key was invalid.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, date string, categoryID int64, title string, amount float64, userID int64) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("expense title %w", core.ErrEmptyField)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("expense %w", core.ErrNotPositive)
	}

	createdAt := time.Now().UTC().Format(timestampLayout)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (date, category_id, title, amount, created_at, user_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		date, categoryID, title, amount, createdAt, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, ErrInvalidReference
		}
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id, "date", date, "title", title, "amount", amount,
		"category_id", categoryID, "user_id", userID)

	return id, nil
}

// FetchExpenses returns expenses matching the filter, most recent date
// first and most recently created first within a date. Every present
// filter field narrows the result with an AND predicate; an empty
// filter fetches everything. Records carry the joined category and
// user names. No match yields an empty slice, never an error.
func (r *SQLiteRepository) FetchExpenses(ctx context.Context, f core.Filter) ([]core.Expense, error) {
	query := `
		SELECT e.id, e.date, e.title, e.amount, e.created_at,
		       c.name AS category_name, u.name AS user_name
		FROM expenses e
		JOIN categories c ON e.category_id = c.id
		JOIN users u ON e.user_id = u.id`

	var conditions []string
	var params []any

	if f.MinDate != "" {
		conditions = append(conditions, "e.date >= ?")
		params = append(params, f.MinDate)
	}
	if f.MaxDate != "" {
		conditions = append(conditions, "e.date <= ?")
		params = append(params, f.MaxDate)
	}
	if f.MinAmount != nil {
		conditions = append(conditions, "e.amount >= ?")
		params = append(params, *f.MinAmount)
	}
	if f.MaxAmount != nil {
		conditions = append(conditions, "e.amount <= ?")
		params = append(params, *f.MaxAmount)
	}
	if len(f.CategoryIDs) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.CategoryIDs)), ",")
		conditions = append(conditions, "e.category_id IN ("+placeholders+")")
		for _, id := range f.CategoryIDs {
			params = append(params, id)
		}
	}
	if f.UserID != 0 {
		conditions = append(conditions, "e.user_id = ?")
		params = append(params, f.UserID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.date DESC, e.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]core.Expense, 0)
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Title, &e.Amount, &e.CreatedAt, &e.Category, &e.User); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
