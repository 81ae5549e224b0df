// Package currency converts base-currency amounts for display.
//
// Amounts are always stored in Base. Conversion happens only when a value is
// shown to the user, using a static rate table.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"holiday-planner/internal/models"

	"github.com/Rhymond/go-money"
)

// Base is the currency every amount is stored in.
const Base = money.USD

// rates holds the multiplier from Base to each supported currency.
var rates = map[string]float64{
	money.USD: 1.0,
	money.GBP: 0.79,
}

// Normalize returns the canonical form of code, or ErrUnknownCurrency.
// An empty code means Base.
func Normalize(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Base, nil
	}
	if _, ok := rates[code]; !ok {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownCurrency, code)
	}
	return code, nil
}

// Convert returns amount, expressed in Base, in the target currency.
func Convert(amount float64, target string) (float64, error) {
	code, err := Normalize(target)
	if err != nil {
		return 0, err
	}
	if code == Base {
		return amount, nil
	}
	return amount * rates[code], nil
}

// Format converts amount from Base to target and renders it with the
// currency symbol and two decimal places, e.g. "£1,234.56".
func Format(amount float64, target string) (string, error) {
	code, err := Normalize(target)
	if err != nil {
		return "", err
	}
	converted, err := Convert(amount, code)
	if err != nil {
		return "", err
	}
	return money.NewFromFloat(converted, code).Display(), nil
}

// Supported returns the supported currency codes in alphabetical order.
func Supported() []string {
	codes := make([]string, 0, len(rates))
	for c := range rates {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
