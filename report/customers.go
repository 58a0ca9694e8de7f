// Package report aggregates admin listings into the summaries the console prints:
// customers, revenue, inventory and the dashboard. Everything here is pure; callers
// fetch the data.
package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/go-authgate/shop-admin-cli/admin"
)

const (
	guestName    = "Guest"
	notAvailable = "N/A"
)

// Customer is everyone who ordered under the same email, phone or name.
type Customer struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Orders     int       `json:"orders"`
	TotalSpent float64   `json:"totalSpent"`
	LastOrder  time.Time `json:"lastOrder"`
}

type CustomerSummary struct {
	Customers         int     `json:"customers"`
	Revenue           float64 `json:"revenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// customerKey picks the first identifying field of the order's customer.
func customerKey(o admin.Order) string {
	switch {
	case o.Customer.Email != "":
		return o.Customer.Email
	case o.Customer.Phone != "":
		return o.Customer.Phone
	case o.Customer.Name != "":
		return o.Customer.Name
	default:
		return "guest-" + o.ID
	}
}

// Customers groups orders by customer, biggest spender first. Name, email and phone
// come from the customer's first order.
func Customers(orders []admin.Order) []Customer {
	index := make(map[string]int)
	var out []Customer

	for _, o := range orders {
		key := customerKey(o)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Customer{
				Key:       key,
				Name:      orDefault(o.Customer.Name, guestName),
				Email:     orDefault(o.Customer.Email, notAvailable),
				Phone:     orDefault(o.Customer.Phone, notAvailable),
				LastOrder: o.CreatedAt,
			})
		}
		c := &out[i]
		c.Orders++
		c.TotalSpent += o.Totals.GrandTotal
		if o.CreatedAt.After(c.LastOrder) {
			c.LastOrder = o.CreatedAt
		}
	}

	slices.SortStableFunc(out, func(a, b Customer) int {
		return cmp.Compare(b.TotalSpent, a.TotalSpent)
	})
	return out
}

// SummarizeCustomers totals the customers. The average is taken over orders, not
// customers.
func SummarizeCustomers(customers []Customer) CustomerSummary {
	s := CustomerSummary{Customers: len(customers)}
	orders := 0
	for _, c := range customers {
		s.Revenue += c.TotalSpent
		orders += c.Orders
	}
	if orders > 0 {
		s.AverageOrderValue = s.Revenue / float64(orders)
	}
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
