package report

import (
	"testing"
	"time"

	"github.com/go-authgate/shop-admin-cli/admin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id string, c admin.OrderCustomer, total float64, status admin.OrderStatus, at string) admin.Order {
	o := admin.Order{ID: id, Customer: c, Totals: admin.OrderTotals{GrandTotal: total}, Status: status}
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			panic(err)
		}
		o.CreatedAt = t
	}
	return o
}

func TestCustomers(t *testing.T) {
	alice := admin.OrderCustomer{Name: "Alice", Email: "alice@example.com", Phone: "0171"}
	orders := []admin.Order{
		order("o1", alice, 100, admin.OrderDelivered, "2024-01-05T10:00:00Z"),
		order("o2", admin.OrderCustomer{Phone: "0199"}, 500, admin.OrderPending, "2024-01-06T10:00:00Z"),
		order("o3", alice, 50, admin.OrderPending, "2024-03-01T10:00:00Z"),
		order("o4", admin.OrderCustomer{Name: "Bob"}, 20, admin.OrderPending, ""),
		order("o5", admin.OrderCustomer{}, 10, admin.OrderPending, ""),
		order("o6", admin.OrderCustomer{}, 10, admin.OrderPending, ""),
	}

	customers := Customers(orders)
	require.Len(t, customers, 5, "anonymous orders are separate guests")

	assert.Equal(t, "0199", customers[0].Key)
	assert.Equal(t, "Guest", customers[0].Name)
	assert.Equal(t, "N/A", customers[0].Email)

	a := customers[1]
	assert.Equal(t, "alice@example.com", a.Key)
	assert.Equal(t, 2, a.Orders)
	assert.InDelta(t, 150, a.TotalSpent, 0.001)
	assert.Equal(t, 2024, a.LastOrder.Year())
	assert.Equal(t, time.March, a.LastOrder.Month())

	assert.Equal(t, "Bob", customers[2].Key)
	assert.Equal(t, "guest-o5", customers[3].Key)
	assert.Equal(t, "guest-o6", customers[4].Key)

	s := SummarizeCustomers(customers)
	assert.Equal(t, 5, s.Customers)
	assert.InDelta(t, 690, s.Revenue, 0.001)
	assert.InDelta(t, 115, s.AverageOrderValue, 0.001)
}

func TestSummarizeCustomers_Empty(t *testing.T) {
	s := SummarizeCustomers(Customers(nil))
	assert.Zero(t, s.Customers)
	assert.Zero(t, s.AverageOrderValue)
}

func TestSearch(t *testing.T) {
	orders := []admin.Order{
		order("65ab12CD", admin.OrderCustomer{Name: "Rahim Uddin", Phone: "01711"}, 1, admin.OrderPending, ""),
		order("65ab99ef", admin.OrderCustomer{Name: "Karim", Phone: "01855"}, 1, admin.OrderPending, ""),
	}
	tests := []struct {
		q    string
		want []string
	}{
		{"", []string{"65ab12CD", "65ab99ef"}},
		{"12cd", []string{"65ab12CD"}},
		{"KARIM", []string{"65ab99ef"}},
		{"0171", []string{"65ab12CD"}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			var got []string
			for _, o := range Search(orders, tt.q) {
				got = append(got, o.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeRevenue(t *testing.T) {
	c := admin.OrderCustomer{Name: "x"}
	orders := []admin.Order{
		order("a", c, 100, admin.OrderDelivered, "2024-05-10T00:00:00Z"),
		order("b", c, 40, admin.OrderPending, "2024-01-10T00:00:00Z"),
		order("c", c, 30, admin.OrderInProgress, "2024-02-10T00:00:00Z"),
		order("d", c, 20, admin.OrderInShipping, "2024-03-10T00:00:00Z"),
		order("e", c, 10, admin.OrderCancelled, "2023-12-10T00:00:00Z"),
		order("f", c, 5, admin.OrderDelivered, "2024-04-10T00:00:00Z"),
		order("g", c, 1, admin.OrderReturned, "2023-11-10T00:00:00Z"),
		order("h", c, 2, admin.OrderDelivered, "2024-05-20T00:00:00Z"),
		order("i", c, 3, admin.OrderDelivered, ""),
	}

	r := SummarizeRevenue(orders)
	assert.Equal(t, 9, r.Orders)
	assert.InDelta(t, 211, r.Total, 0.001)
	assert.Equal(t, Bucket{Orders: 4, Revenue: 110}, r.Delivered)
	assert.Equal(t, Bucket{Orders: 1, Revenue: 40}, r.Pending)
	assert.Equal(t, Bucket{Orders: 2, Revenue: 50}, r.InProgress)

	var labels []string
	for _, m := range r.ByMonth {
		labels = append(labels, m.Label)
	}
	assert.Equal(t, []string{"Dec 2023", "Jan 2024", "Feb 2024", "Mar 2024", "Apr 2024", "May 2024"}, labels)
	last := r.ByMonth[len(r.ByMonth)-1]
	assert.Equal(t, 2, last.Orders)
	assert.InDelta(t, 102, last.Revenue, 0.001)
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		month, start, end string
	}{
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2023-02", "2023-02-01", "2023-02-28"},
		{"2024-12", "2024-12-01", "2024-12-31"},
		{"2024-04", "2024-04-01", "2024-04-30"},
	}
	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			start, end, err := MonthRange(tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}

	_, _, err := MonthRange("2024-13")
	assert.Error(t, err)
	_, _, err = MonthRange("March")
	assert.Error(t, err)
}

func TestRecentMonths(t *testing.T) {
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)
	got := RecentMonths(now, 12)
	require.Len(t, got, 12)
	assert.Equal(t, []string{"2024-03", "2024-02", "2024-01", "2023-12"}, got[:4])
	assert.Equal(t, "2023-04", got[11])
	assert.Nil(t, RecentMonths(now, 0))
}

func TestInventory(t *testing.T) {
	products := []admin.Product{
		{ID: "1", Title: "Rose Serum", Brand: "Glow", Slug: "rose-serum", CategorySlug: "skin", Price: 10, Stock: 0},
		{ID: "2", Title: "Lip Balm", Brand: "Glow", Slug: "lip-balm", CategorySlug: "lips", Price: 5, Stock: 10},
		{ID: "3", Title: "Face Wash", Brand: "Pure", Slug: "face-wash", CategorySlug: "skin", Price: 2.5, Stock: 11},
		{ID: "4", Title: "Toner", Brand: "Pure", Slug: "toner", CategorySlug: "skin", Price: 1, Stock: 3},
	}

	inv := SummarizeInventory(products, 0)
	assert.Equal(t, Inventory{Products: 4, OutOfStock: 1, LowStock: 2, TotalValue: 50 + 27.5 + 3}, inv)

	inv = SummarizeInventory(products, 5)
	assert.Equal(t, 1, inv.LowStock)

	ids := func(ps []admin.Product) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}
	tests := []struct {
		name string
		f    ProductFilter
		want []string
	}{
		{"all", ProductFilter{}, []string{"1", "2", "3", "4"}},
		{"out", ProductFilter{State: StockOut}, []string{"1"}},
		{"low", ProductFilter{State: StockLow}, []string{"2", "4"}},
		{"good", ProductFilter{State: StockGood}, []string{"3"}},
		{"low with threshold", ProductFilter{State: StockLow, Threshold: 5}, []string{"4"}},
		{"brand query", ProductFilter{Query: "pure"}, []string{"3", "4"}},
		{"slug query", ProductFilter{Query: "LIP-"}, []string{"2"}},
		{"category and state", ProductFilter{Category: "skin", State: StockLow}, []string{"4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterProducts(products, tt.f)))
		})
	}
}

func TestParseStockState(t *testing.T) {
	for in, want := range map[string]StockState{"": StockAll, "ALL": StockAll, "out": StockOut, "Low": StockLow, "good": StockGood} {
		got, err := ParseStockState(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStockState("plenty")
	assert.Error(t, err)
}

func TestBuildDashboard(t *testing.T) {
	var items []admin.Order
	for i, email := range []string{"a@x", "b@x", "a@x", "", "c@x", "d@x"} {
		items = append(items, order(
			"65f0c3a1b2c3d4e5f6a7b8c"+string(rune('0'+i)),
			admin.OrderCustomer{Email: email},
			10,
			admin.OrderPending,
			"2024-03-01T00:00:00Z",
		))
	}
	products := &admin.ProductPage{Items: []admin.Product{
		{Title: "A", Price: 2, Stock: 3},
		{Price: 1, Stock: 1},
		{Title: "C"}, {Title: "D"}, {Title: "E"},
	}}

	d := BuildDashboard(&admin.OrderPage{Items: items, Total: 42}, products)
	assert.Equal(t, 42, d.TotalOrders)
	assert.Equal(t, 5, d.TotalProducts)
	assert.InDelta(t, 60, d.RecentRevenue, 0.001)
	assert.Equal(t, 4, d.UniqueCustomers)

	require.Len(t, d.RecentOrders, 5)
	assert.Equal(t, "#A7B8C0", d.RecentOrders[0].Ref)
	assert.Equal(t, "Guest", d.RecentOrders[0].Customer)

	require.Len(t, d.TopProducts, 4)
	assert.Equal(t, TopProduct{Title: "A", Stock: 3, Value: 6}, d.TopProducts[0])
	assert.Equal(t, "Untitled", d.TopProducts[1].Title)

	empty := BuildDashboard(nil, nil)
	assert.Zero(t, empty.TotalOrders)
	assert.Empty(t, empty.RecentOrders)
}

func TestOrderRef(t *testing.T) {
	assert.Equal(t, "#ABC123", OrderRef("65f0abc123"))
	assert.Equal(t, "#AB1", OrderRef("ab1"))
	assert.Equal(t, "#", OrderRef(""))
}
