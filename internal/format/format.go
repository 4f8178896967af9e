// Package format renders store values as display strings. The locale is
// fixed to en-US.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const minTokenDisplay = 0.000001

var printer = message.NewPrinter(language.AmericanEnglish)

// Number formats v with exactly decimals fraction digits. In compact mode
// values of at least a thousand are abbreviated with K, M or B.
func Number(v float64, decimals int, compact bool) string {
	if math.IsNaN(v) {
		return "0"
	}
	if compact {
		abs := math.Abs(v)
		switch {
		case abs >= 1e9:
			return strconv.FormatFloat(v/1e9, 'f', decimals, 64) + "B"
		case abs >= 1e6:
			return strconv.FormatFloat(v/1e6, 'f', decimals, 64) + "M"
		case abs >= 1e3:
			return strconv.FormatFloat(v/1e3, 'f', decimals, 64) + "K"
		}
	}
	return printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals),
	))
}

// NumberString is Number for string input; unparseable input renders "0".
func NumberString(s string, decimals int, compact bool) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "0"
	}
	return Number(v, decimals, compact)
}

// Currency prefixes Number with a dollar sign.
func Currency(v float64, decimals int, compact bool) string {
	return "$" + Number(v, decimals, compact)
}

// Percentage renders a signed percentage, e.g. "+1.25%".
func Percentage(v float64, decimals int) string {
	if math.IsNaN(v) {
		return "0%"
	}
	return fmt.Sprintf("%+.*f%%", decimals, v)
}

// TokenAmount converts raw base units into a human amount with at most
// display fraction digits.
func TokenAmount(raw string, decimals uint8, display int) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "0"
	}
	v, _ := d.Shift(-int32(decimals)).Float64()
	if v < minTokenDisplay {
		return "< 0.000001"
	}
	return printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(display),
	))
}

// ShortenAddress keeps the 0x prefix plus chars characters on each side.
func ShortenAddress(address string, chars int) string {
	if address == "" {
		return ""
	}
	if len(address) <= chars*2+2 {
		return address
	}
	return address[:chars+2] + "..." + address[len(address)-chars:]
}

// TruncateText cuts text to max runes, ending with an ellipsis.
func TruncateText(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	if max < 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
