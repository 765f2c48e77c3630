package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"invoicedb/models"
)

// ToCents converts a decimal amount string (e.g. "12.34") to an integer
// number of minor currency units, rounding half-up on the third decimal
// digit. The conversion uses exact decimal string arithmetic so repeated
// normalize-store-format cycles never drift; binary floating point is
// deliberately avoided. Zero is allowed, negative amounts are not.
func ToCents(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: amount is required", models.ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return 0, models.ErrNegativeAmount
	}
	s = strings.TrimPrefix(s, "+")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, raw)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, raw)
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, raw)
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, raw)
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidAmount, raw)
	}
	// At iv == maxSafe the fractional cents alone can wrap the sum, so the
	// bound is exclusive.
	const maxSafe = (1<<63 - 1) / 100
	if iv >= maxSafe {
		return 0, fmt.Errorf("%w: %q overflows", models.ErrInvalidAmount, raw)
	}

	// First two fractional digits are cents; the third decides the half-up
	// rounding. Digits past the third cannot move the result across the
	// half-cent boundary, so they are ignored.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// FormatCents renders integer cents as "$X.YY" using integer arithmetic only,
// e.g. 30025 -> "$300.25". The inverse of ToCents for two-decimal inputs.
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
