// Package shell implements the interactive menu loop. It reads from an
// io.Reader and writes to an io.Writer so the loop can be driven by a
// terminal or by a scripted test.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"spend/internal/core"
	"spend/internal/render"
	"spend/internal/services"
)

type Shell struct {
	svc *services.ExpenseService
	in  *bufio.Scanner
	out io.Writer
}

func New(svc *services.ExpenseService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		svc: svc,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

var mainMenu = []string{
	"Record New Expense",
	"View All Expenses",
	"Filter Expenses by Date Range",
	"Filter Expenses by Amount Range",
	"Filter Expenses by Category",
	"Filter Expenses by User",
	"View Expense Summary",
	"Manage Users",
	"Manage Categories",
}

// Run drives the menu loop until the user exits or input ends.
func (s *Shell) Run(ctx context.Context) {
	fmt.Fprintln(s.out, "Welcome to the Expense Tracking System!")

	for {
		s.printMenu("Expense Tracking System", mainMenu)
		choice, ok := s.menuChoice(len(mainMenu))
		if !ok || choice == 0 {
			fmt.Fprintln(s.out, "\nThank you for using the Expense Tracking System!")
			return
		}

		switch choice {
		case 1:
			s.recordExpense(ctx)
		case 2:
			s.viewAll(ctx)
		case 3:
			s.filterByDate(ctx)
		case 4:
			s.filterByAmount(ctx)
		case 5:
			s.filterByCategory(ctx)
		case 6:
			s.filterByUser(ctx)
		case 7:
			s.viewSummary(ctx)
		case 8:
			s.manageUsers(ctx)
		case 9:
			s.manageCategories(ctx)
		}
	}
}

func (s *Shell) recordExpense(ctx context.Context) {
	fmt.Fprintln(s.out, "\n=== Record New Expense ===")

	date, ok := s.prompt("Enter date (YYYY-MM-DD): ")
	if !ok {
		return
	}
	title, ok := s.prompt("Enter expense title: ")
	if !ok {
		return
	}
	amount, ok := s.prompt("Enter amount: ")
	if !ok {
		return
	}
	userName, ok := s.prompt("Enter your name: ")
	if !ok {
		return
	}

	category, ok := s.chooseCategory(ctx)
	if !ok {
		return
	}

	id, err := s.svc.Record(ctx, date, category, title, amount, userName)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(s.out, "\nExpense recorded successfully!")
	fmt.Fprintf(s.out, "Expense ID: %d\n", id)
}

// chooseCategory lists the known categories and accepts either a
// numeric pick or a free-form new category name.
func (s *Shell) chooseCategory(ctx context.Context) (string, bool) {
	categories, err := s.svc.ListCategories(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Error retrieving categories: %v\n", err)
		return "", false
	}

	fmt.Fprintln(s.out, "\nAvailable categories:")
	for i, c := range categories {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, c.Name)
	}

	input, ok := s.prompt(fmt.Sprintf("\nEnter category number (1-%d) or enter new category name: ", len(categories)))
	if !ok {
		return "", false
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(categories) {
			return categories[n-1].Name, true
		}
		fmt.Fprintf(s.out, "Please enter a number between 1 and %d\n", len(categories))
		return "", false
	}
	return input, true
}

func (s *Shell) viewAll(ctx context.Context) {
	fmt.Fprintln(s.out, "\n=== All Expenses ===")
	fmt.Fprintln(s.out, render.Expenses(s.svc.AllExpenses(ctx)))
}

func (s *Shell) filterByDate(ctx context.Context) {
	fmt.Fprintln(s.out, "\nEnter date range (YYYY-MM-DD format, leave empty to skip):")
	minDate, ok := s.promptOptional("Start date (min): ")
	if !ok {
		return
	}
	maxDate, ok := s.promptOptional("End date (max): ")
	if !ok {
		return
	}
	s.showFiltered(s.svc.ViewByDate(ctx, minDate, maxDate), "date range")
}

func (s *Shell) filterByAmount(ctx context.Context) {
	fmt.Fprintln(s.out, "\nEnter amount range (leave empty to skip):")
	minAmount, ok := s.promptAmount("Minimum amount: ")
	if !ok {
		return
	}
	maxAmount, ok := s.promptAmount("Maximum amount: ")
	if !ok {
		return
	}
	s.showFiltered(s.svc.ViewByAmount(ctx, minAmount, maxAmount), "amount range")
}

func (s *Shell) filterByCategory(ctx context.Context) {
	categories, err := s.svc.ListCategories(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Error retrieving categories: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "\nAvailable categories:")
	for i, c := range categories {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, c.Name)
	}

	input, ok := s.prompt("Enter category names (comma-separated): ")
	if !ok {
		return
	}
	var names []string
	for _, name := range strings.Split(input, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	s.showFiltered(s.svc.ViewByCategory(ctx, names), "selected categories")
}

func (s *Shell) filterByUser(ctx context.Context) {
	users, err := s.svc.ListUsers(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Error retrieving users: %v\n", err)
		return
	}
	if len(users) == 0 {
		fmt.Fprintln(s.out, "No users found.")
		return
	}

	fmt.Fprintln(s.out, "\nAvailable users:")
	for _, u := range users {
		fmt.Fprintf(s.out, "ID: %d, Name: %s\n", u.ID, u.Name)
	}

	input, ok := s.prompt("Enter user ID: ")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "Please enter a valid number")
		return
	}
	s.showFiltered(s.svc.ViewByUser(ctx, id), "selected user")
}

func (s *Shell) viewSummary(ctx context.Context) {
	fmt.Fprintln(s.out, "\n=== Expense Summary ===")
	fmt.Fprintln(s.out, render.Summary(s.svc.Summarize(ctx, nil)))
}

func (s *Shell) manageUsers(ctx context.Context) {
	fmt.Fprintln(s.out, "\n=== Manage Users ===")
	for {
		s.printMenu("User Management", []string{"View All Users", "Add New User", "Back to Main Menu"})
		choice, ok := s.menuChoice(3)
		if !ok || choice == 0 || choice == 3 {
			return
		}
		switch choice {
		case 1:
			users, err := s.svc.ListUsers(ctx)
			if err != nil {
				fmt.Fprintf(s.out, "Error retrieving users: %v\n", err)
				continue
			}
			if len(users) == 0 {
				fmt.Fprintln(s.out, "No users found.")
				continue
			}
			fmt.Fprintf(s.out, "\nAll Users (%d):\n", len(users))
			for _, u := range users {
				fmt.Fprintf(s.out, "ID: %d, Name: %s\n", u.ID, u.Name)
			}
		case 2:
			name, ok := s.prompt("Enter new user name: ")
			if !ok {
				continue
			}
			id, err := s.svc.CreateUser(ctx, name)
			if err != nil {
				fmt.Fprintf(s.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(s.out, "User '%s' created successfully with ID: %d\n", name, id)
		}
	}
}

func (s *Shell) manageCategories(ctx context.Context) {
	fmt.Fprintln(s.out, "\n=== Manage Categories ===")
	for {
		s.printMenu("Category Management", []string{"View All Categories", "Add New Category", "Back to Main Menu"})
		choice, ok := s.menuChoice(3)
		if !ok || choice == 0 || choice == 3 {
			return
		}
		switch choice {
		case 1:
			categories, err := s.svc.ListCategories(ctx)
			if err != nil {
				fmt.Fprintf(s.out, "Error retrieving categories: %v\n", err)
				continue
			}
			fmt.Fprintf(s.out, "\nAll Categories (%d):\n", len(categories))
			for _, c := range categories {
				fmt.Fprintf(s.out, "ID: %d, Name: %s\n", c.ID, c.Name)
			}
		case 2:
			name, ok := s.prompt("Enter new category name: ")
			if !ok {
				continue
			}
			id, err := s.svc.CreateCategory(ctx, name)
			if err != nil {
				fmt.Fprintf(s.out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(s.out, "Category '%s' created successfully with ID: %d\n", name, id)
		}
	}
}

func (s *Shell) showFiltered(expenses []core.Expense, what string) {
	if len(expenses) == 0 {
		fmt.Fprintf(s.out, "No expenses found for the %s.\n", what)
		return
	}
	fmt.Fprintf(s.out, "\nFound %d expense(s):\n", len(expenses))
	fmt.Fprintln(s.out, render.Expenses(expenses))
}

func (s *Shell) printMenu(title string, options []string) {
	fmt.Fprintf(s.out, "\n=== %s ===\n", title)
	for i, option := range options {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, option)
	}
	fmt.Fprintln(s.out, "0. Exit")
}

// menuChoice reads until a number in [0, max] arrives. The second
// return is false once input is exhausted.
func (s *Shell) menuChoice(max int) (int, bool) {
	for {
		fmt.Fprintf(s.out, "\nEnter your choice (0-%d): ", max)
		if !s.in.Scan() {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(s.in.Text()))
		if err != nil {
			fmt.Fprintln(s.out, "Please enter a valid number")
			continue
		}
		if n < 0 || n > max {
			fmt.Fprintf(s.out, "Please enter a number between 0 and %d\n", max)
			continue
		}
		return n, true
	}
}

// prompt reads a non-empty line, re-asking while the input is blank.
func (s *Shell) prompt(label string) (string, bool) {
	for {
		fmt.Fprint(s.out, label)
		if !s.in.Scan() {
			return "", false
		}
		value := strings.TrimSpace(s.in.Text())
		if value == "" {
			fmt.Fprintln(s.out, "This field cannot be empty. Please try again.")
			continue
		}
		return value, true
	}
}

// promptOptional reads a line that may be empty.
func (s *Shell) promptOptional(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptAmount reads an optional float bound. Empty input means no
// bound; a non-numeric value is reported and treated as no bound.
func (s *Shell) promptAmount(label string) (*float64, bool) {
	input, ok := s.promptOptional(label)
	if !ok {
		return nil, false
	}
	if input == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		fmt.Fprintln(s.out, "Please enter a valid number")
		return nil, true
	}
	return &v, true
}
