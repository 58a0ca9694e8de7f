package report

import (
	"strings"
	"time"

	"github.com/go-authgate/shop-admin-cli/admin"
)

const (
	recentOrdersShown = 5
	topProductsShown  = 4
)

type RecentOrder struct {
	Ref      string            `json:"ref"`
	Customer string            `json:"customer"`
	Amount   float64           `json:"amount"`
	Status   admin.OrderStatus `json:"status"`
	Placed   time.Time         `json:"placed"`
}

type TopProduct struct {
	Title string  `json:"title"`
	Stock int     `json:"stock"`
	Value float64 `json:"value"`
}

// Dashboard is the overview shown on start: headline counts plus the latest orders.
type Dashboard struct {
	TotalOrders     int           `json:"totalOrders"`
	TotalProducts   int           `json:"totalProducts"`
	RecentRevenue   float64       `json:"recentRevenue"`
	UniqueCustomers int           `json:"uniqueCustomers"`
	RecentOrders    []RecentOrder `json:"recentOrders"`
	TopProducts     []TopProduct  `json:"topProducts"`
}

// BuildDashboard summarizes the first page of orders and products. Revenue and
// customers cover the fetched orders only; totals come from the server.
func BuildDashboard(orders *admin.OrderPage, products *admin.ProductPage) Dashboard {
	var d Dashboard
	if products != nil {
		d.TotalProducts = products.Total
		if d.TotalProducts == 0 {
			d.TotalProducts = len(products.Items)
		}
		for _, p := range products.Items[:min(len(products.Items), topProductsShown)] {
			d.TopProducts = append(d.TopProducts, TopProduct{
				Title: orDefault(p.Title, "Untitled"),
				Stock: p.Stock,
				Value: p.Price * float64(p.Stock),
			})
		}
	}
	if orders == nil {
		return d
	}

	d.TotalOrders = orders.Total
	emails := make(map[string]struct{})
	for i, o := range orders.Items {
		d.RecentRevenue += o.Totals.GrandTotal
		if o.Customer.Email != "" {
			emails[o.Customer.Email] = struct{}{}
		}
		if i < recentOrdersShown {
			d.RecentOrders = append(d.RecentOrders, RecentOrder{
				Ref:      OrderRef(o.ID),
				Customer: orDefault(o.Customer.Name, guestName),
				Amount:   o.Totals.GrandTotal,
				Status:   o.Status,
				Placed:   o.CreatedAt,
			})
		}
	}
	d.UniqueCustomers = len(emails)
	return d
}

// OrderRef is the short order reference shown to staff: "#" and the last six
// characters of the id, upper-cased.
func OrderRef(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "#" + strings.ToUpper(id)
}
