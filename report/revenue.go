package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-authgate/shop-admin-cli/admin"
)

const (
	monthLayout      = "2006-01"
	monthLabelLayout = "Jan 2006"
	monthsShown      = 6
)

// Bucket counts the orders in one status group.
type Bucket struct {
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

func (b *Bucket) add(o admin.Order) {
	b.Orders++
	b.Revenue += o.Totals.GrandTotal
}

type MonthRevenue struct {
	Month   time.Time `json:"month"`
	Label   string    `json:"label"`
	Orders  int       `json:"orders"`
	Revenue float64   `json:"revenue"`
}

// Revenue is the revenue breakdown of a set of orders.
type Revenue struct {
	Orders     int     `json:"orders"`
	Total      float64 `json:"total"`
	Delivered  Bucket  `json:"delivered"`
	Pending    Bucket  `json:"pending"`
	InProgress Bucket  `json:"inProgress"`
	// ByMonth holds the most recent months with orders, oldest first.
	ByMonth []MonthRevenue `json:"byMonth"`
}

// Search keeps the orders whose id, customer name or phone contains q, ignoring case.
// An empty q keeps everything.
func Search(orders []admin.Order, q string) []admin.Order {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return orders
	}
	var out []admin.Order
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.ID), q) ||
			strings.Contains(strings.ToLower(o.Customer.Name), q) ||
			strings.Contains(strings.ToLower(o.Customer.Phone), q) {
			out = append(out, o)
		}
	}
	return out
}

// SummarizeRevenue sums grand totals overall, per status group and per month. Shipping
// orders count as in progress.
func SummarizeRevenue(orders []admin.Order) Revenue {
	r := Revenue{Orders: len(orders)}
	months := make(map[time.Time]*MonthRevenue)

	for _, o := range orders {
		r.Total += o.Totals.GrandTotal
		switch o.Status {
		case admin.OrderDelivered:
			r.Delivered.add(o)
		case admin.OrderPending:
			r.Pending.add(o)
		case admin.OrderInProgress, admin.OrderInShipping:
			r.InProgress.add(o)
		}

		if o.CreatedAt.IsZero() {
			continue
		}
		start := time.Date(o.CreatedAt.Year(), o.CreatedAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := months[start]
		if !ok {
			m = &MonthRevenue{Month: start, Label: start.Format(monthLabelLayout)}
			months[start] = m
		}
		m.Orders++
		m.Revenue += o.Totals.GrandTotal
	}

	for _, m := range months {
		r.ByMonth = append(r.ByMonth, *m)
	}
	slices.SortFunc(r.ByMonth, func(a, b MonthRevenue) int { return a.Month.Compare(b.Month) })
	if len(r.ByMonth) > monthsShown {
		r.ByMonth = r.ByMonth[len(r.ByMonth)-monthsShown:]
	}
	return r
}

// MonthRange returns the first and last day of a "YYYY-MM" month as YYYY-MM-DD dates,
// ready for an order filter.
func MonthRange(month string) (start, end string, err error) {
	t, err := time.Parse(monthLayout, month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	last := t.AddDate(0, 1, -1)
	return t.Format(time.DateOnly), last.Format(time.DateOnly), nil
}

// RecentMonths lists n months as "YYYY-MM", starting with the month of now.
func RecentMonths(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]string, 0, n)
	for i := range n {
		out = append(out, first.AddDate(0, -i, 0).Format(monthLayout))
	}
	return out
}
