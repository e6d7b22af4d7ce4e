package invoicing

import (
	"sort"
	"strconv"
	"time"
)

// Counter records the invoice counter value (ICV) assigned to an invoice.
// Counter values increase monotonically and are removed with their invoice.
type Counter struct {
	InvoiceID    string
	CounterValue int64
	CreatedAt    time.Time
}

// NextSequenceNumber returns the smallest positive integer not present in ids.
// Non-numeric ids are ignored.
func NextSequenceNumber(ids []string) string {
	used := make([]int, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil || n < 1 {
			continue
		}
		used = append(used, n)
	}
	sort.Ints(used)

	next := 1
	for _, n := range used {
		if n == next {
			next++
		} else if n > next {
			break
		}
	}
	return strconv.Itoa(next)
}
