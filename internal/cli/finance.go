package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/daybook/internal/model"
	"github.com/runnerr0/daybook/internal/store"
)

// Execute implements the go-flags Commander interface for LogCommand.
func (c *LogCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s, time.Now())
}

func (c *LogCommand) executeWithStore(s *store.Store, now time.Time) error {
	if len(c.AddCategory) > 0 {
		return c.addCategories(s)
	}
	if c.Delete != "" {
		s.DeleteTransaction(c.Delete)
		s.Flush()
		fmt.Printf("Deleted transaction %s\n", c.Delete)
		return nil
	}
	if c.List {
		return c.listTransactions(s)
	}

	if c.Expense != "" && c.Income != "" {
		return fmt.Errorf("--expense and --income are mutually exclusive")
	}
	raw := c.Expense
	txType := model.TxExpense
	if c.Income != "" {
		raw = c.Income
		txType = model.TxIncome
	}
	if raw == "" {
		return fmt.Errorf("log requires --expense, --income, --delete, --list, or --add-category")
	}

	amount, err := parseAmount(raw)
	if err != nil {
		return err
	}
	date, err := resolveDate(c.On, now)
	if err != nil {
		return err
	}
	if date == "" {
		date = model.DateKey(now)
	}

	tx := model.Transaction{
		ID:          newID("tx"),
		Type:        txType,
		Amount:      amount,
		Category:    c.Category,
		Date:        date,
		Description: c.Description,
	}
	if err := s.AddTransaction(tx); err != nil {
		return err
	}
	s.Flush()

	if c.globals != nil && c.globals.JSON {
		return printJSON(tx)
	}
	fmt.Printf("Logged %s %s on %s", tx.Type, tx.Amount.StringFixed(2), tx.Date)
	if tx.Category != "" {
		fmt.Printf(" (%s)", tx.Category)
	}
	fmt.Println()
	return nil
}

// addCategories adds finance categories from NAME:TYPE specs.
func (c *LogCommand) addCategories(s *store.Store) error {
	for _, spec := range c.AddCategory {
		name, txType, ok := strings.Cut(spec, ":")
		if !ok || name == "" {
			return fmt.Errorf("invalid category spec %q (use NAME:income or NAME:expense)", spec)
		}
		cat := model.Category{
			ID:   newID("cat"),
			Name: name,
			Type: txType,
		}
		if err := s.AddCategory(cat); err != nil {
			return err
		}
		fmt.Printf("Added category %s (%s, %s)\n", cat.ID, cat.Name, cat.Type)
	}
	s.Flush()
	return nil
}

func (c *LogCommand) listTransactions(s *store.Store) error {
	txs := s.Finance().Transactions

	if c.globals != nil && c.globals.JSON {
		return printJSON(txs)
	}

	if len(txs) == 0 {
		fmt.Println("No transactions.")
		return nil
	}
	for _, tx := range txs {
		line := fmt.Sprintf("%s  %s  %-7s %10s", tx.ID, tx.Date, tx.Type, tx.Amount.StringFixed(2))
		if tx.Category != "" {
			line += "  " + tx.Category
		}
		if tx.Description != "" {
			line += "  — " + tx.Description
		}
		fmt.Println(line)
	}
	return nil
}

// Execute implements the go-flags Commander interface for BudgetCommand.
func (c *BudgetCommand) Execute(args []string) error {
	s, cleanup, err := openDefaultStore(c.globals)
	if err != nil {
		return err
	}
	defer cleanup()

	return c.executeWithStore(s, time.Now())
}

func (c *BudgetCommand) executeWithStore(s *store.Store, now time.Time) error {
	switch {
	case c.Set:
		if c.Category == "" {
			return fmt.Errorf("--set requires --category")
		}
		limit, err := parseAmount(c.Limit)
		if err != nil {
			return err
		}
		budget := model.Budget{
			CategoryID: c.Category,
			Limit:      limit,
			Period:     c.Period,
		}
		if err := s.SetBudget(budget); err != nil {
			return err
		}
		s.Flush()
		fmt.Printf("Budget set: %s %s per %s\n", c.Category, limit.StringFixed(2), c.Period)
		return nil

	case c.Delete:
		if c.Category == "" {
			return fmt.Errorf("--delete requires --category")
		}
		s.DeleteBudget(c.Category)
		s.Flush()
		fmt.Printf("Deleted budget for %s\n", c.Category)
		return nil

	default:
		return c.printStatuses(s, now)
	}
}

func (c *BudgetCommand) printStatuses(s *store.Store, now time.Time) error {
	statuses := s.BudgetStatuses(now)

	if c.globals != nil && c.globals.JSON {
		type statusJSON struct {
			Category  string `json:"category"`
			Limit     string `json:"limit"`
			Spent     string `json:"spent"`
			Remaining string `json:"remaining"`
			Period    string `json:"period"`
			Exceeded  bool   `json:"exceeded"`
		}
		out := make([]statusJSON, len(statuses))
		for i, st := range statuses {
			out[i] = statusJSON{
				Category:  st.Budget.CategoryName,
				Limit:     st.Budget.Limit.StringFixed(2),
				Spent:     st.Spent.StringFixed(2),
				Remaining: st.Remaining.StringFixed(2),
				Period:    st.Budget.Period,
				Exceeded:  st.Exceeded,
			}
		}
		return printJSON(out)
	}

	if len(statuses) == 0 {
		fmt.Println("No budgets.")
		return nil
	}
	for _, st := range statuses {
		marker := ""
		if st.Exceeded {
			marker = "  OVER"
		}
		fmt.Printf("%-15s %s / %s per %s%s\n",
			st.Budget.CategoryName,
			st.Spent.StringFixed(2),
			st.Budget.Limit.StringFixed(2),
			st.Budget.Period,
			marker)
	}
	return nil
}
