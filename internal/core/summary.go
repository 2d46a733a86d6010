package core

// Summary is the aggregate view over a set of expenses: overall totals
// plus per-category and per-user breakdowns. UserExpenses preserves the
// input ordering within each group.
type Summary struct {
	Total        float64
	Count        int
	ByCategory   map[string]float64
	ByUser       map[string]float64
	UserExpenses map[string][]Expense
}

// Summarize computes a Summary in a single pass. Empty input yields
// zero totals and empty, non-nil maps. Every expense lands in exactly
// one category bucket and one user bucket, so the bucket sums both
// equal Total.
func Summarize(expenses []Expense) Summary {
	s := Summary{
		ByCategory:   make(map[string]float64),
		ByUser:       make(map[string]float64),
		UserExpenses: make(map[string][]Expense),
	}
	for _, e := range expenses {
		s.Total += e.Amount
		s.Count++
		s.ByCategory[e.Category] += e.Amount
		s.ByUser[e.User] += e.Amount
		s.UserExpenses[e.User] = append(s.UserExpenses[e.User], e)
	}
	return s
}
