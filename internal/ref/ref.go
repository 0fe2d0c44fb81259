package ref

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefixes for generated journal references, by origin.
const (
	PrefixManual  = "JE"
	PrefixInvoice = "INV"
	PrefixBill    = "BILL"
	PrefixPayment = "PAY"
)

// Format returns a journal reference like "JE-2025-01-001".
func Format(prefix string, year, month, seq int) string {
	return fmt.Sprintf("%s-%04d-%02d-%03d", prefix, year, month, seq)
}

// ForDocument returns a reference derived from a document number, e.g.
// ForDocument("INV", "2025-0042") -> "INV-2025-0042". Document numbers are
// unique per type, so the derived reference is unique too.
func ForDocument(prefix, number string) string {
	return prefix + "-" + number
}

// ForPayment returns a payment reference unique per document and payment
// sequence, e.g. "PAY-INV-2025-0042-2".
func ForPayment(docPrefix, number string, seq int) string {
	return fmt.Sprintf("%s-%s-%s-%d", PrefixPayment, docPrefix, number, seq)
}

// Parse splits a generated reference into prefix, year, month and seq.
// Only references produced by Format parse; document-derived references
// return an error.
func Parse(reference string) (prefix string, year, month, seq int, err error) {
	parts := strings.Split(reference, "-")
	if len(parts) != 4 {
		return "", 0, 0, 0, fmt.Errorf("invalid reference format: %q", reference)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid year in reference %q: %w", reference, err)
	}
	month, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid month in reference %q: %w", reference, err)
	}
	seq, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("invalid sequence in reference %q: %w", reference, err)
	}

	return parts[0], year, month, seq, nil
}

// MonthPrefix returns the "JE-2025-01-" style prefix for all manual
// references in the month of date, used to find the next free sequence.
func MonthPrefix(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%04d-%02d-", prefix, date.Year(), int(date.Month()))
}
