package shell

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"spend/internal/services"
	"spend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, script string) (*Shell, *bytes.Buffer) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	svc := services.NewExpenseService(repo, nil)
	t.Cleanup(func() { svc.Close() })

	var out bytes.Buffer
	return New(svc, strings.NewReader(script), &out), &out
}

func TestRunExitImmediately(t *testing.T) {
	sh, out := newTestShell(t, "0\n")
	sh.Run(context.Background())

	assert.Contains(t, out.String(), "Welcome to the Expense Tracking System!")
	assert.Contains(t, out.String(), "Thank you for using the Expense Tracking System!")
}

func TestRunExitsOnEOF(t *testing.T) {
	sh, out := newTestShell(t, "")
	sh.Run(context.Background())
	assert.Contains(t, out.String(), "Thank you for using the Expense Tracking System!")
}

func TestRecordThenViewAll(t *testing.T) {
	script := strings.Join([]string{
		"1",          // record new expense
		"2025-10-20", // date
		"Lunch",      // title
		"12.50",      // amount
		"Alice",      // user
		"1",          // first listed category (Entertainment, alphabetical)
		"2",          // view all
		"0",          // exit
	}, "\n") + "\n"

	sh, out := newTestShell(t, script)
	sh.Run(context.Background())

	got := out.String()
	assert.Contains(t, got, "Expense recorded successfully!")
	assert.Contains(t, got, "Expense ID: 1")
	assert.Contains(t, got, "Lunch")
	assert.Contains(t, got, "$12.50")
	assert.Contains(t, got, "Alice")
}

func TestRecordWithNewCategoryName(t *testing.T) {
	script := strings.Join([]string{
		"1",
		"2025-10-20",
		"Seeds",
		"5",
		"Alice",
		"Gardening", // free-form category name instead of a number
		"0",
	}, "\n") + "\n"

	sh, out := newTestShell(t, script)
	sh.Run(context.Background())
	assert.Contains(t, out.String(), "Expense recorded successfully!")
}

func TestRecordInvalidDateReportsError(t *testing.T) {
	script := strings.Join([]string{
		"1",
		"2025-13-40",
		"Lunch",
		"10",
		"Alice",
		"1",
		"0",
	}, "\n") + "\n"

	sh, out := newTestShell(t, script)
	sh.Run(context.Background())
	assert.Contains(t, out.String(), "Error:")
	assert.NotContains(t, out.String(), "Expense recorded successfully!")
}

func TestFilterByDateRange(t *testing.T) {
	script := strings.Join([]string{
		"1", "2025-10-20", "Early", "10", "Alice", "Food",
		"1", "2025-10-25", "Late", "20", "Alice", "Food",
		"3",          // filter by date range
		"2025-10-24", // min
		"",           // max open-ended
		"0",
	}, "\n") + "\n"

	sh, out := newTestShell(t, script)
	sh.Run(context.Background())

	got := out.String()
	assert.Contains(t, got, "Found 1 expense(s):")
	assert.Contains(t, got, "Late")
}

func TestFilterNoMatches(t *testing.T) {
	script := strings.Join([]string{
		"4",    // filter by amount range
		"1000", // min
		"",     // max
		"0",
	}, "\n") + "\n"

	sh, out := newTestShell(t, script)
	sh.Run(context.Background())
	assert.Contains(t, out.String(), "No expenses found for the amount range.")
}

func TestSummaryOption(t *testing.T) {
	script := strings.Join([]string{
		"1", "2025-10-20", "Lunch", "100", "Alice", "Food",
		"7", // summary
		"0",
	}, "\n") + "\n"

	sh, out := newTestShell(t, script)
	sh.Run(context.Background())

	got := out.String()
	assert.Contains(t, got, "=== EXPENSE SUMMARY ===")
	assert.Contains(t, got, "Total Expenses: $100.00")
	assert.Contains(t, got, "Food: $100.00 (100.0%)")
}

func TestManageUsersAddAndList(t *testing.T) {
	script := strings.Join([]string{
		"8",    // manage users
		"2",    // add new user
		"Iris", // name
		"1",    // view all users
		"3",    // back
		"0",    // exit
	}, "\n") + "\n"

	sh, out := newTestShell(t, script)
	sh.Run(context.Background())

	got := out.String()
	assert.Contains(t, got, "User 'Iris' created successfully with ID: 1")
	assert.Contains(t, got, "All Users (1):")
}

func TestManageCategoriesDuplicate(t *testing.T) {
	script := strings.Join([]string{
		"9",    // manage categories
		"2",    // add new category
		"Food", // duplicate of a seeded default
		"3",    // back
		"0",    // exit
	}, "\n") + "\n"

	sh, out := newTestShell(t, script)
	sh.Run(context.Background())
	assert.Contains(t, out.String(), "already exists")
}

func TestInvalidMenuChoiceReprompts(t *testing.T) {
	sh, out := newTestShell(t, "42\nabc\n0\n")
	sh.Run(context.Background())

	got := out.String()
	assert.Contains(t, got, "Please enter a number between 0 and 9")
	assert.Contains(t, got, "Please enter a valid number")
}
