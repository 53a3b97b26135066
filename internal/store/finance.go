package store

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/runnerr0/daybook/internal/codec"
	"github.com/runnerr0/daybook/internal/model"
)

// TransactionPatch holds the fields a transaction update may change.
type TransactionPatch struct {
	Type        *string
	Amount      *decimal.Decimal
	Category    *string
	Date        *string
	Description *string
}

// BudgetStatus is the read-time view of one budget: the stored limit
// plus the spent amount recomputed from the current transactions. Spent
// is never stored, so an edited or deleted transaction is reflected
// immediately.
type BudgetStatus struct {
	Budget    model.Budget
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Exceeded  bool
}

// Finance returns a snapshot of the finance collection.
func (s *Store) Finance() model.FinanceData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(codec.KeyFinance).(model.FinanceData)
}

// AddTransaction appends a transaction.
func (s *Store) AddTransaction(t model.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("add transaction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.finance.Transactions {
		if existing.ID == t.ID {
			return fmt.Errorf("add transaction: id %s already exists", t.ID)
		}
	}

	s.state.finance.Transactions = append(
		append([]model.Transaction(nil), s.state.finance.Transactions...), t)
	s.persist(codec.KeyFinance)
	return nil
}

// UpdateTransaction shallow-merges patch into the transaction with the
// given id. Unknown ids are logged no-ops. Because spent amounts are
// recomputed at read time, moving a transaction across months or
// categories needs no bookkeeping here.
func (s *Store) UpdateTransaction(id string, patch TransactionPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := append([]model.Transaction(nil), s.state.finance.Transactions...)
	idx := -1
	for i, t := range txs {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.logger.Printf("WARNING: update transaction %s: not found, ignoring", id)
		return
	}

	t := txs[idx]
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	txs[idx] = t

	s.state.finance.Transactions = txs
	s.persist(codec.KeyFinance)
}

// DeleteTransaction removes a transaction by id. Unknown ids are no-ops.
func (s *Store) DeleteTransaction(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := make([]model.Transaction, 0, len(s.state.finance.Transactions))
	found := false
	for _, t := range s.state.finance.Transactions {
		if t.ID == id {
			found = true
			continue
		}
		txs = append(txs, t)
	}
	if !found {
		s.logger.Printf("WARNING: delete transaction %s: not found, ignoring", id)
		return
	}

	s.state.finance.Transactions = txs
	s.persist(codec.KeyFinance)
}

// AddCategory appends a finance category. Names must be unique: the
// name is the join key transactions reference.
func (s *Store) AddCategory(c model.Category) error {
	if c.ID == "" {
		return fmt.Errorf("add category: id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("add category: name is required")
	}
	if c.Type != model.TxIncome && c.Type != model.TxExpense {
		return fmt.Errorf("add category: invalid type %q", c.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.finance.Categories {
		if existing.ID == c.ID {
			return fmt.Errorf("add category: id %s already exists", c.ID)
		}
		if existing.Name == c.Name {
			return fmt.Errorf("add category: name %q already exists", c.Name)
		}
	}

	s.state.finance.Categories = append(
		append([]model.Category(nil), s.state.finance.Categories...), c)
	s.persist(codec.KeyFinance)
	return nil
}

// RenameCategory changes a category's name and cascades the new name to
// every transaction referencing the old one and to the category's
// budget. Transactions join on the name, so skipping the cascade would
// orphan them.
func (s *Store) RenameCategory(id, newName string) error {
	if newName == "" {
		return fmt.Errorf("rename category: name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cats := append([]model.Category(nil), s.state.finance.Categories...)
	idx := -1
	for i, c := range cats {
		if c.ID == id {
			idx = i
			continue
		}
		if c.Name == newName {
			return fmt.Errorf("rename category: name %q already exists", newName)
		}
	}
	if idx == -1 {
		return fmt.Errorf("rename category: id %s not found", id)
	}

	oldName := cats[idx].Name
	cats[idx].Name = newName

	txs := append([]model.Transaction(nil), s.state.finance.Transactions...)
	for i := range txs {
		if txs[i].Category == oldName {
			txs[i].Category = newName
		}
	}

	budgets := append([]model.Budget(nil), s.state.finance.Budgets...)
	for i := range budgets {
		if budgets[i].CategoryID == id {
			budgets[i].CategoryName = newName
		}
	}

	s.state.finance.Categories = cats
	s.state.finance.Transactions = txs
	s.state.finance.Budgets = budgets
	s.persist(codec.KeyFinance)
	return nil
}

// DeleteCategory removes a category, clears the category reference on
// every transaction that carried it, and removes the category's budget.
// The transactions themselves survive as uncategorized records.
func (s *Store) DeleteCategory(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := make([]model.Category, 0, len(s.state.finance.Categories))
	var removed *model.Category
	for _, c := range s.state.finance.Categories {
		if c.ID == id {
			removed = &c
			continue
		}
		cats = append(cats, c)
	}
	if removed == nil {
		s.logger.Printf("WARNING: delete category %s: not found, ignoring", id)
		return
	}

	txs := append([]model.Transaction(nil), s.state.finance.Transactions...)
	for i := range txs {
		if txs[i].Category == removed.Name {
			txs[i].Category = ""
		}
	}

	budgets := make([]model.Budget, 0, len(s.state.finance.Budgets))
	for _, b := range s.state.finance.Budgets {
		if b.CategoryID == id {
			continue
		}
		budgets = append(budgets, b)
	}

	s.state.finance.Categories = cats
	s.state.finance.Transactions = txs
	s.state.finance.Budgets = budgets
	s.persist(codec.KeyFinance)
}

// SetBudget creates or replaces the budget for a category. At most one
// budget exists per category; setting again overwrites.
func (s *Store) SetBudget(b model.Budget) error {
	if b.CategoryID == "" {
		return fmt.Errorf("set budget: category id is required")
	}
	if b.Period != model.PeriodMonth && b.Period != model.PeriodYear {
		return fmt.Errorf("set budget: invalid period %q", b.Period)
	}
	if b.Limit.IsNegative() {
		return fmt.Errorf("set budget: limit must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categoryByIDLocked(b.CategoryID)
	if !ok {
		return fmt.Errorf("set budget: category %s not found", b.CategoryID)
	}
	b.CategoryName = cat.Name

	budgets := append([]model.Budget(nil), s.state.finance.Budgets...)
	replaced := false
	for i := range budgets {
		if budgets[i].CategoryID == b.CategoryID {
			budgets[i] = b
			replaced = true
			break
		}
	}
	if !replaced {
		budgets = append(budgets, b)
	}

	s.state.finance.Budgets = budgets
	s.persist(codec.KeyFinance)
	return nil
}

// DeleteBudget removes the budget for a category. Unknown categories
// are no-ops.
func (s *Store) DeleteBudget(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	budgets := make([]model.Budget, 0, len(s.state.finance.Budgets))
	found := false
	for _, b := range s.state.finance.Budgets {
		if b.CategoryID == categoryID {
			found = true
			continue
		}
		budgets = append(budgets, b)
	}
	if !found {
		s.logger.Printf("WARNING: delete budget for category %s: not found, ignoring", categoryID)
		return
	}

	s.state.finance.Budgets = budgets
	s.persist(codec.KeyFinance)
}

// BudgetStatuses computes the current standing of every budget against
// the expenses of the period containing ref (the current month or year).
func (s *Store) BudgetStatuses(ref time.Time) []BudgetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]BudgetStatus, 0, len(s.state.finance.Budgets))
	for _, b := range s.state.finance.Budgets {
		spent := decimal.Zero
		for _, t := range s.state.finance.Transactions {
			if t.Type != model.TxExpense || t.Category != b.CategoryName {
				continue
			}
			day, err := model.ParseDateKey(t.Date)
			if err != nil {
				continue
			}
			if !inBudgetPeriod(day, ref, b.Period) {
				continue
			}
			spent = spent.Add(t.Amount)
		}
		remaining := b.Limit.Sub(spent)
		statuses = append(statuses, BudgetStatus{
			Budget:    b,
			Spent:     spent,
			Remaining: remaining,
			Exceeded:  remaining.IsNegative(),
		})
	}
	return statuses
}

func inBudgetPeriod(day, ref time.Time, period string) bool {
	if day.Year() != ref.Year() {
		return false
	}
	if period == model.PeriodMonth {
		return day.Month() == ref.Month()
	}
	return true
}

// categoryByIDLocked looks up a category. Callers must hold s.mu.
func (s *Store) categoryByIDLocked(id string) (model.Category, bool) {
	for _, c := range s.state.finance.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}
