package kernel

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"kds/internal/pkg/errs"
	"kds/internal/pkg/guard"
)

// DefaultCurrency is used for totals of orders without items.
const DefaultCurrency = "EUR"

var ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney")

// Money is an amount in minor currency units (cents).
type Money struct {
	amount   int64
	currency string

	guard guard.ConstructorGuard
}

// NewMoney validates amount >= 0 and a non-empty currency. The currency code
// is trimmed and upper-cased.
func NewMoney(amount int64, currency string) (Money, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if err := errors.Join(
		validateAmount(amount),
		validateCurrency(currency),
	); err != nil {
		return Money{}, err
	}

	return Money{amount: amount, currency: currency, guard: guard.NewConstructorGuard()}, nil
}

// ZeroMoney returns 0 in the given currency, falling back to DefaultCurrency.
func ZeroMoney(currency string) Money {
	m, err := NewMoney(0, currency)
	if err != nil {
		m, _ = NewMoney(0, DefaultCurrency)
	}
	return m
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// Multiply returns the amount scaled by quantity, keeping the currency.
// A product that does not fit in int64 is rejected.
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 0, math.MaxInt)
	}
	if m.amount != 0 && int64(quantity) > math.MaxInt64/m.amount {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", fmt.Sprintf("%d x %d", m.amount, quantity), 0, int64(math.MaxInt64))
	}
	return Money{amount: m.amount * int64(quantity), currency: m.currency, guard: m.guard}, nil
}

// Add sums two amounts. The receiver's currency wins; totals are not converted.
func (m Money) Add(other Money) (Money, error) {
	if other.amount > math.MaxInt64-m.amount {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", fmt.Sprintf("%d + %d", m.amount, other.amount), 0, int64(math.MaxInt64))
	}
	return Money{amount: m.amount + other.amount, currency: m.currency, guard: m.guard}, nil
}

func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.amount, m.currency)
}

func validateAmount(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", amount))
	}
	return nil
}

func validateCurrency(currency string) error {
	if currency == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	return nil
}
