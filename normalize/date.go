package normalize

import (
	"fmt"
	"strings"
	"time"

	"invoicedb/models"
)

// ISODate is the canonical textual date form all inputs are normalized to
// before storage or comparison.
const ISODate = "2006-01-02"

// dateLayouts are the accepted input shapes, tried in order. The first
// successful parse wins. Non-padded layouts accept both "1/5/2025" and
// "01/05/2025".
var dateLayouts = []string{"1-2-2006", "1/2/2006", "2006-1-2"}

// Date coerces MM-DD-YYYY, MM/DD/YYYY, or YYYY-MM-DD into YYYY-MM-DD.
// A blank input is a valid "no value" and is passed through as the empty
// string, not an error.
func Date(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ISODate), nil
		}
	}
	return "", fmt.Errorf("%w: invalid date %q (expected MM-DD-YYYY, MM/DD/YYYY, or YYYY-MM-DD)", models.ErrInvalidFormat, raw)
}
