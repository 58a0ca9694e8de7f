package main

import (
	"fmt"
	"time"

	"github.com/go-authgate/shop-admin-cli/admin"
	"github.com/go-authgate/shop-admin-cli/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// dashboardOrders is how many recent orders the dashboard fetches.
const dashboardOrders = 5

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "report", Short: "Summaries computed from orders and products"}
	cmd.AddCommand(customersReportCmd(a), revenueReportCmd(a), inventoryReportCmd(a), monthsCmd())
	return cmd
}

func customersReportCmd(a *app) *cobra.Command {
	var filters orderFilterFlags
	var top int
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customers ranked by what they spent",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := filters.filter()
			if err != nil {
				return err
			}
			orders, err := a.allOrders(cmd.Context(), f)
			if err != nil {
				return err
			}
			customers := report.Customers(orders)
			summary := report.SummarizeCustomers(customers)
			if top > 0 && len(customers) > top {
				customers = customers[:top]
			}

			if a.cfg.Output == outputJSON {
				return writeJSON(a.out(), map[string]any{
					"summary":   summary,
					"customers": nonEmpty(customers),
				})
			}
			t := &table{header: []string{"Name", "Email", "Phone", "Orders", "Spent", "Last order"}}
			for _, c := range customers {
				t.add(oneLine(c.Name, 30), c.Email, c.Phone, itoa(c.Orders), money(c.TotalSpent), day(c.LastOrder))
			}
			if err := a.render(t, "No customers."); err != nil {
				return err
			}
			fmt.Fprintf(a.out(), "%d customers, revenue %s, average order %s.\n",
				summary.Customers, money(summary.Revenue), money(summary.AverageOrderValue))
			return nil
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "only the N biggest spenders")
	return cmd
}

func revenueReportCmd(a *app) *cobra.Command {
	var filters orderFilterFlags
	var search string
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Revenue by status and month",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := filters.filter()
			if err != nil {
				return err
			}
			orders, err := a.allOrders(cmd.Context(), f)
			if err != nil {
				return err
			}
			rev := report.SummarizeRevenue(report.Search(orders, search))
			if a.cfg.Output == outputJSON {
				rev.ByMonth = nonEmpty(rev.ByMonth)
				return writeJSON(a.out(), rev)
			}

			t := &table{header: []string{"Group", "Orders", "Revenue"}}
			t.add("All", itoa(rev.Orders), money(rev.Total))
			t.add("Delivered", itoa(rev.Delivered.Orders), money(rev.Delivered.Revenue))
			t.add("Pending", itoa(rev.Pending.Orders), money(rev.Pending.Revenue))
			t.add("In progress", itoa(rev.InProgress.Orders), money(rev.InProgress.Revenue))
			if err := a.render(t, ""); err != nil {
				return err
			}
			months := &table{header: []string{"Month", "Orders", "Revenue"}}
			for _, m := range rev.ByMonth {
				months.add(m.Label, itoa(m.Orders), money(m.Revenue))
			}
			return a.render(months, "")
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&search, "search", "", "only orders whose id, customer name or phone contains this")
	return cmd
}

func inventoryReportCmd(a *app) *cobra.Command {
	var (
		query     string
		category  string
		state     string
		threshold int
	)
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Stock levels and value of the catalog",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := report.ParseStockState(state)
			if err != nil {
				return usageError{err}
			}
			var page *admin.ProductPage
			err = a.fetch("products", func() (err error) {
				page, err = a.svc.ListProducts(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			inv := report.SummarizeInventory(page.Items, threshold)
			products := report.FilterProducts(page.Items, report.ProductFilter{
				Query:     query,
				Category:  category,
				State:     st,
				Threshold: threshold,
			})

			if a.cfg.Output == outputJSON {
				return writeJSON(a.out(), map[string]any{
					"summary":  inv,
					"products": nonEmpty(products),
				})
			}
			t := &table{header: []string{"ID", "Title", "Brand", "Stock", "State", "Price", "Value"}}
			for _, p := range products {
				t.add(p.ID, oneLine(p.Title, 40), p.Brand, itoa(p.Stock),
					string(report.StateOf(p.Stock, threshold)), money(p.Price), money(p.Price*float64(p.Stock)))
			}
			if err := a.render(t, "No matching products."); err != nil {
				return err
			}
			fmt.Fprintf(a.out(), "%d products, %d out of stock, %d low, stock value %s.\n",
				inv.Products, inv.OutOfStock, inv.LowStock, money(inv.TotalValue))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&query, "search", "", "match title, brand or slug")
	f.StringVar(&category, "category", "", "category slug")
	f.StringVar(&state, "state", "all", "stock state: out, low, good or all")
	f.IntVar(&threshold, "threshold", report.DefaultLowStockThreshold, "low stock threshold")
	return cmd
}

func monthsCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:              "months",
		Short:            "List the months accepted by --month",
		Args:             noArgs,
		PersistentPreRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, m := range report.RecentMonths(time.Now(), n) {
				cmd.Println(m)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&n, "count", 12, "how many months back to list")
	return cmd
}

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Headline numbers and the latest orders",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				orders   *admin.OrderPage
				products *admin.ProductPage
			)
			a.display.Requesting("dashboard")
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				orders, err = a.svc.ListOrders(ctx, admin.OrderFilter{Limit: dashboardOrders})
				return err
			})
			g.Go(func() (err error) {
				products, err = a.svc.ListProducts(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			a.display.RequestOK("dashboard")

			d := report.BuildDashboard(orders, products)
			if a.cfg.Output == outputJSON {
				return writeJSON(a.out(), d)
			}
			if err := a.renderPairs(d, [][2]string{
				{"Revenue (recent orders)", money(d.RecentRevenue)},
				{"Orders", itoa(d.TotalOrders)},
				{"Products", itoa(d.TotalProducts)},
				{"Customers (recent orders)", itoa(d.UniqueCustomers)},
			}); err != nil {
				return err
			}
			recent := &table{header: []string{"Order", "Customer", "Amount", "Status", "Placed"}}
			for _, o := range d.RecentOrders {
				recent.add(o.Ref, oneLine(o.Customer, 30), money(o.Amount), string(o.Status), day(o.Placed))
			}
			if err := a.render(recent, "No orders yet."); err != nil {
				return err
			}
			top := &table{header: []string{"Product", "Stock", "Stock value"}}
			for _, p := range d.TopProducts {
				top.add(oneLine(p.Title, 40), itoa(p.Stock), money(p.Value))
			}
			return a.render(top, "")
		},
	}
}
