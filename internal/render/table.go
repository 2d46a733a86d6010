// Package render formats expenses and summaries as plain-text tables
// for the interactive shell. Output is deterministic: user sections are
// sorted by name and category breakdowns by descending amount.
package render

import (
	"fmt"
	"sort"
	"strings"

	"spend/internal/core"
)

// Currency formats an amount with a dollar sign and two decimals.
func Currency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// Expenses renders a list of expenses as a table with a header and a
// dashed rule. Columns grow to fit content but never shrink below their
// minimum widths.
func Expenses(expenses []core.Expense) string {
	if len(expenses) == 0 {
		return "No expenses found."
	}

	idW, dateW, titleW, amountW, catW, userW := 3, 10, 5, 7, 8, 4
	for _, e := range expenses {
		idW = maxInt(idW, len(fmt.Sprintf("%d", e.ID)))
		dateW = maxInt(dateW, len(e.Date))
		titleW = maxInt(titleW, len(e.Title))
		amountW = maxInt(amountW, len(Currency(e.Amount)))
		catW = maxInt(catW, len(e.Category))
		userW = maxInt(userW, len(e.User))
	}

	header := fmt.Sprintf("%-*s | %-*s | %-*s | %-*s | %-*s | %-*s",
		idW, "ID", dateW, "Date", titleW, "Title",
		amountW, "Amount", catW, "Category", userW, "User")

	lines := make([]string, 0, len(expenses)+2)
	lines = append(lines, header, strings.Repeat("-", len(header)))
	for _, e := range expenses {
		lines = append(lines, fmt.Sprintf("%-*d | %-*s | %-*s | %-*s | %-*s | %-*s",
			idW, e.ID, dateW, e.Date, titleW, e.Title,
			amountW, Currency(e.Amount), catW, e.Category, userW, e.User))
	}
	return strings.Join(lines, "\n")
}

// Summary renders the full summary report: a per-user expense table
// with subtotals, the overall totals, and the category breakdown with
// percentages. The breakdown is omitted when the total is zero.
func Summary(s core.Summary) string {
	var out []string
	out = append(out, "=== EXPENSE SUMMARY ===\n")

	if len(s.UserExpenses) > 0 {
		out = append(out, "EXPENSES BY USER:")
		out = append(out, strings.Repeat("=", 80))

		users := make([]string, 0, len(s.UserExpenses))
		for user := range s.UserExpenses {
			users = append(users, user)
		}
		sort.Strings(users)

		for _, user := range users {
			out = append(out, fmt.Sprintf("\n%s's Expenses:", user))
			out = append(out, strings.Repeat("-", 80))
			out = append(out, userTable(user, s)...)
			out = append(out, "")
		}

		out = append(out, strings.Repeat("=", 80))
		out = append(out, "")
	}

	out = append(out, "OVERALL SUMMARY:")
	out = append(out, fmt.Sprintf("Total Expenses: %s", Currency(s.Total)))
	out = append(out, fmt.Sprintf("Number of Expenses: %d", s.Count))
	out = append(out, "")

	if len(s.ByCategory) > 0 && s.Total > 0 {
		out = append(out, "CATEGORY BREAKDOWN (with Percentages):")
		for _, c := range sortedCategories(s.ByCategory) {
			percentage := c.amount / s.Total * 100
			out = append(out, fmt.Sprintf("  %s: %s (%.1f%%)", c.name, Currency(c.amount), percentage))
		}
	}

	return strings.Join(out, "\n")
}

func userTable(user string, s core.Summary) []string {
	expenses := s.UserExpenses[user]
	if len(expenses) == 0 {
		return nil
	}

	dateW, titleW, amountW, catW := 10, 15, 8, 10
	for _, e := range expenses {
		dateW = maxInt(dateW, len(e.Date))
		titleW = maxInt(titleW, len(e.Title))
		amountW = maxInt(amountW, len(Currency(e.Amount)))
		catW = maxInt(catW, len(e.Category))
	}

	header := fmt.Sprintf("%-*s | %-*s | %-*s | %-*s",
		dateW, "Date", titleW, "Title", amountW, "Amount", catW, "Category")

	lines := []string{header, strings.Repeat("-", len(header))}
	for _, e := range expenses {
		lines = append(lines, fmt.Sprintf("%-*s | %-*s | %-*s | %-*s",
			dateW, e.Date, titleW, e.Title, amountW, Currency(e.Amount), catW, e.Category))
	}
	lines = append(lines, strings.Repeat("-", len(header)))
	lines = append(lines, fmt.Sprintf("%-*s | %-*s | %-*s | %d expense(s)",
		dateW, "TOTAL", titleW, "", amountW, Currency(s.ByUser[user]), len(expenses)))

	return lines
}

type categoryAmount struct {
	name   string
	amount float64
}

func sortedCategories(byCategory map[string]float64) []categoryAmount {
	categories := make([]categoryAmount, 0, len(byCategory))
	for name, amount := range byCategory {
		categories = append(categories, categoryAmount{name, amount})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].amount != categories[j].amount {
			return categories[i].amount > categories[j].amount
		}
		return categories[i].name < categories[j].name
	})
	return categories
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
