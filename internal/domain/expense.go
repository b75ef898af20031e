package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the trip's local currency; every amount is stored in it.
const DefaultCurrency = "JPY"

// Amount is a whole number of currency units.
// Legacy data may hold fractional numbers or numeric strings; both are
// rounded to whole units when decoded.
type Amount int64

// Decimal returns the amount as a decimal for arithmetic.
func (a Amount) Decimal() decimal.Decimal { return decimal.NewFromInt(int64(a)) }

// UnmarshalJSON accepts a JSON number or a numeric JSON string.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	lit := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &lit); err != nil {
			return fmt.Errorf("domain.Amount: %w", err)
		}
		if lit == "" {
			*a = 0
			return nil
		}
	}
	d, err := decimal.NewFromString(lit)
	if err != nil {
		return fmt.Errorf("domain.Amount: invalid amount %q: %w", lit, err)
	}
	*a = Amount(d.Round(0).IntPart())
	return nil
}

// MarshalJSON writes the amount as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(a), 10)), nil
}

// Expense is one entry in the trip's expense ledger.
type Expense struct {
	ID            ID     `json:"id"`
	Title         string `json:"title" validate:"required"`
	Amount        Amount `json:"amount" validate:"gte=0"`
	Currency      string `json:"currency" validate:"required,len=3,uppercase"`
	Category      string `json:"category"`
	Payer         string `json:"payer"`
	PaymentMethod string `json:"paymentMethod"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`

	// Extra keeps members such as a legacy note or splitWith list.
	Extra Extra `json:"-"`
}

// UnmarshalJSON decodes onto the existing value and keeps undeclared members.
func (e *Expense) UnmarshalJSON(b []byte) error {
	type plain Expense
	return decodeRecord(b, (*plain)(e), &e.Extra)
}

// MarshalJSON writes the declared fields followed by Extra.
func (e Expense) MarshalJSON() ([]byte, error) {
	type plain Expense
	return encodeRecord(plain(e), e.Extra)
}

// RecordID implements Record.
func (e Expense) RecordID() ID { return e.ID }

// WithID implements Record.
func (e Expense) WithID(id ID) Expense {
	e.ID = id
	return e
}
