package pricing

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Format renders amount with the currency's symbol, grouping separators and its fixed
// number of decimals.
func (c *Converter) Format(amount float64, code string) (string, error) {
	cur, err := c.Lookup(code)
	if err != nil {
		return "", err
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = math.Abs(amount)
	}
	digits := printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(cur.Decimals),
		number.MaxFractionDigits(cur.Decimals),
	))
	return sign + cur.Symbol + digits, nil
}

// Display converts an amount held in base and formats it in code.
func (c *Converter) Display(amount float64, base, code string) (string, error) {
	converted, err := c.Convert(amount, base, code)
	if err != nil {
		return "", err
	}
	return c.Format(converted, code)
}
