package report

import (
	"fmt"
	"strings"

	"github.com/go-authgate/shop-admin-cli/admin"
)

// DefaultLowStockThreshold is the stock level at or below which a product counts as
// low.
const DefaultLowStockThreshold = 10

// StockState classifies a product's stock level.
type StockState string

const (
	StockAll  StockState = "all"
	StockOut  StockState = "out"
	StockLow  StockState = "low"
	StockGood StockState = "good"
)

// ParseStockState accepts the filter names used on the command line.
func ParseStockState(s string) (StockState, error) {
	switch st := StockState(strings.ToLower(s)); st {
	case "":
		return StockAll, nil
	case StockAll, StockOut, StockLow, StockGood:
		return st, nil
	default:
		return "", fmt.Errorf("unknown stock filter %q (want out, low, good or all)", s)
	}
}

// StateOf returns the state of a stock level. A non-positive threshold uses the
// default.
func StateOf(stock, threshold int) StockState {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	switch {
	case stock <= 0:
		return StockOut
	case stock <= threshold:
		return StockLow
	default:
		return StockGood
	}
}

type Inventory struct {
	Products   int     `json:"products"`
	OutOfStock int     `json:"outOfStock"`
	LowStock   int     `json:"lowStock"`
	TotalValue float64 `json:"totalValue"`
}

// SummarizeInventory counts out and low stock products and values the stock at
// list price.
func SummarizeInventory(products []admin.Product, threshold int) Inventory {
	inv := Inventory{Products: len(products)}
	for _, p := range products {
		switch StateOf(p.Stock, threshold) {
		case StockOut:
			inv.OutOfStock++
		case StockLow:
			inv.LowStock++
		}
		inv.TotalValue += p.Price * float64(p.Stock)
	}
	return inv
}

// ProductFilter narrows a product listing. Zero fields match everything.
type ProductFilter struct {
	// Query matches title, brand or slug, ignoring case.
	Query    string
	Category string
	State    StockState
	// Threshold for the low state; non-positive means the default.
	Threshold int
}

func FilterProducts(products []admin.Product, f ProductFilter) []admin.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var out []admin.Product
	for _, p := range products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) &&
			!strings.Contains(strings.ToLower(p.Slug), q) {
			continue
		}
		if f.Category != "" && p.CategorySlug != f.Category {
			continue
		}
		if f.State != "" && f.State != StockAll && StateOf(p.Stock, f.Threshold) != f.State {
			continue
		}
		out = append(out, p)
	}
	return out
}
