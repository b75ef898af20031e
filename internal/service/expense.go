package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pkordes/trip-planner/backend/internal/domain"
	"github.com/pkordes/trip-planner/backend/internal/repo"
)

// Ledger holds the conversion and budget figures of the expense page.
type Ledger struct {
	// SecondaryCurrency is the display currency amounts are projected to.
	SecondaryCurrency string
	// Rate converts one unit of the trip currency to SecondaryCurrency.
	Rate decimal.Decimal
	// BudgetGoal is the planned spend, in the trip currency.
	BudgetGoal domain.Amount
}

// DefaultLedger projects JPY to TWD at 0.21 against a 200000 JPY budget.
var DefaultLedger = Ledger{
	SecondaryCurrency: "TWD",
	Rate:              decimal.RequireFromString("0.21"),
	BudgetGoal:        200000,
}

// ExpenseSummary is the dashboard view of the ledger.
type ExpenseSummary struct {
	Count             int                      `json:"count"`
	Currency          string                   `json:"currency"`
	Total             domain.Amount            `json:"total"`
	SecondaryCurrency string                   `json:"secondaryCurrency"`
	SecondaryTotal    domain.Amount            `json:"secondaryTotal"`
	Rate              decimal.Decimal          `json:"rate"`
	BudgetGoal        domain.Amount            `json:"budgetGoal"`
	ProgressPercent   decimal.Decimal          `json:"progressPercent"`
	ByPayer           map[string]domain.Amount `json:"byPayer"`
	ByCategory        map[string]domain.Amount `json:"byCategory"`
}

// ExpenseService manages the expense ledger.
type ExpenseService struct {
	*CollectionService[domain.Expense]
	ledger Ledger
}

// NewExpenseService constructs an ExpenseService backed by list. now
// supplies the default date of new expenses.
func NewExpenseService(list repo.ListRepo[domain.Expense], mu sync.Locker, ledger Ledger, now func() time.Time) *ExpenseService {
	if now == nil {
		now = time.Now
	}
	return &ExpenseService{
		CollectionService: NewCollectionService(domain.CollectionExpenses, list, mu,
			WithPrepare(func(e domain.Expense) domain.Expense {
				e.Title = strings.TrimSpace(e.Title)
				e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
				if e.Currency == "" {
					e.Currency = domain.DefaultCurrency
				}
				if e.Date == "" {
					e.Date = domain.Today(now())
				}
				return e
			})),
		ledger: ledger,
	}
}

// Summary totals the ledger and projects it to the secondary currency.
// Projections are rounded to whole units.
func (s *ExpenseService) Summary(ctx context.Context) (ExpenseSummary, error) {
	items, err := s.List(ctx)
	if err != nil {
		return ExpenseSummary{}, fmt.Errorf("service.ExpenseService.Summary: %w", err)
	}
	return Summarize(items, s.ledger), nil
}

// Summarize computes the summary of items under ledger.
func Summarize(items []domain.Expense, ledger Ledger) ExpenseSummary {
	sum := ExpenseSummary{
		Count:             len(items),
		Currency:          domain.DefaultCurrency,
		SecondaryCurrency: ledger.SecondaryCurrency,
		Rate:              ledger.Rate,
		BudgetGoal:        ledger.BudgetGoal,
		ByPayer:           map[string]domain.Amount{},
		ByCategory:        map[string]domain.Amount{},
	}

	total := decimal.Zero
	for _, e := range items {
		total = total.Add(e.Amount.Decimal())
		sum.ByPayer[e.Payer] += e.Amount
		sum.ByCategory[e.Category] += e.Amount
	}
	sum.Total = domain.Amount(total.IntPart())
	sum.SecondaryTotal = domain.Amount(total.Mul(ledger.Rate).Round(0).IntPart())

	sum.ProgressPercent = decimal.Zero
	if ledger.BudgetGoal > 0 {
		pct := total.Mul(decimal.NewFromInt(100)).Div(ledger.BudgetGoal.Decimal()).Round(1)
		sum.ProgressPercent = decimal.Min(pct, decimal.NewFromInt(100))
	}
	return sum
}
