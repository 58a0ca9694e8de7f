package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-authgate/shop-admin-cli/admin"
	"github.com/go-authgate/shop-admin-cli/report"
	"github.com/spf13/cobra"
)

// orderFilterFlags are the listing filters shared by orders and reports.
type orderFilterFlags struct {
	status string
	from   string
	to     string
	month  string
}

func (o *orderFilterFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.status, "status", "", "order status (PENDING, IN_PROGRESS, IN_SHIPPING, DELIVERED, CANCELLED, RETURNED)")
	f.StringVar(&o.from, "from", "", "first day, YYYY-MM-DD")
	f.StringVar(&o.to, "to", "", "last day, YYYY-MM-DD")
	f.StringVar(&o.month, "month", "", "whole month, YYYY-MM (overrides --from and --to)")
}

func (o *orderFilterFlags) filter() (admin.OrderFilter, error) {
	st, err := parseOrderStatus(o.status)
	if err != nil {
		return admin.OrderFilter{}, err
	}
	f := admin.OrderFilter{Status: st, StartDate: o.from, EndDate: o.to}
	if o.month != "" {
		if f.StartDate, f.EndDate, err = report.MonthRange(o.month); err != nil {
			return admin.OrderFilter{}, usageError{err}
		}
	}
	return f, nil
}

// allOrders pages through every matching order with a progress bar on stderr.
func (a *app) allOrders(ctx context.Context, f admin.OrderFilter) ([]admin.Order, error) {
	a.display.Requesting("orders")
	bar := a.newProgress("Fetching orders")
	orders, err := a.svc.ListAll(ctx, f, func(fetched, total int) {
		if total > 0 {
			bar.ChangeMax(total)
		}
		_ = bar.Set(fetched)
	})
	_ = bar.Finish()
	if err != nil {
		return nil, err
	}
	a.display.RequestOK(fmt.Sprintf("%d orders", len(orders)))
	return orders, nil
}

func orderRows(orders []admin.Order) *table {
	t := &table{
		header: []string{"Ref", "ID", "Customer", "Phone", "Total", "Status", "Placed"},
		value:  nonEmpty(orders),
	}
	for _, o := range orders {
		t.add(
			report.OrderRef(o.ID),
			o.ID,
			oneLine(o.Customer.Name, 30),
			o.Customer.Phone,
			money(o.Totals.GrandTotal),
			string(o.Status),
			stamp(o.CreatedAt),
		)
	}
	return t
}

// ── Orders ──────────────────────────────────────────────────────────────────

func ordersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "orders", Short: "Browse orders"}

	var (
		filters orderFilterFlags
		page    int
		limit   int
		all     bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := filters.filter()
			if err != nil {
				return err
			}
			if all {
				orders, err := a.allOrders(cmd.Context(), f)
				if err != nil {
					return err
				}
				return a.render(orderRows(orders), "No orders.")
			}

			f.Page, f.Limit = page, limit
			var res *admin.OrderPage
			err = a.fetch("orders", func() (err error) {
				res, err = a.svc.ListOrders(cmd.Context(), f)
				return err
			})
			if err != nil {
				return err
			}
			t := orderRows(res.Items)
			res.Items = nonEmpty(res.Items)
			t.value = res
			if err := a.render(t, "No orders."); err != nil {
				return err
			}
			if a.cfg.Output == outputTable && len(res.Items) > 0 {
				fmt.Fprintf(a.out(), "Page %d, %d of %d orders.\n", max(page, 1), len(res.Items), res.Total)
			}
			return nil
		},
	}
	filters.register(list)
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().IntVar(&limit, "limit", 20, "orders per page")
	list.Flags().BoolVar(&all, "all", false, "fetch every page")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one order with its lines",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var o *admin.Order
			err := a.fetch("order", func() (err error) {
				o, err = a.svc.GetOrder(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			if a.cfg.Output == outputJSON {
				return writeJSON(a.out(), o)
			}
			pairs := [][2]string{
				{"Order", report.OrderRef(o.ID) + " (" + o.ID + ")"},
				{"Status", string(o.Status)},
				{"Placed", stamp(o.CreatedAt)},
				{"Customer", o.Customer.Name},
				{"Email", o.Customer.Email},
				{"Phone", o.Customer.Phone},
			}
			if addr := o.Customer.BillingAddress; addr != nil {
				pairs = append(pairs, [2]string{"Address", joinNonEmpty(", ",
					addr.HouseOrVillage, addr.RoadOrPostOffice, addr.BlockOrThana, addr.District)})
			}
			pairs = append(pairs,
				[2]string{"Subtotal", money(o.Totals.SubTotal)},
				[2]string{"Shipping", money(o.Totals.Shipping)},
				[2]string{"Total", money(o.Totals.GrandTotal)},
			)
			if err := a.renderPairs(o, pairs); err != nil {
				return err
			}
			lines := &table{header: []string{"Product", "Title", "Price", "Qty", "Amount"}}
			for _, l := range o.Lines {
				lines.add(l.ProductID, oneLine(l.Title, 40), money(l.Price), itoa(l.Qty), money(l.Price*float64(l.Qty)))
			}
			return a.render(lines, "")
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// ── Delivery settings ───────────────────────────────────────────────────────

func deliveryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "delivery", Short: "View and change delivery charges"}

	show := func(ds *admin.DeliverySettings) error {
		return a.renderPairs(ds, [][2]string{
			{"Delivery charge", money(ds.DeliveryCharge)},
			{"Free delivery from", money(ds.FreeDeliveryThreshold)},
			{"Free delivery active", yesNo(ds.IsActive)},
		})
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show delivery settings",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ds *admin.DeliverySettings
			err := a.fetch("delivery settings", func() (err error) {
				ds, err = a.svc.GetDeliverySettings(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			return show(ds)
		},
	}

	var (
		charge    float64
		threshold float64
		active    bool
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change delivery settings; unset flags keep their current value",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.svc.GetDeliverySettings(cmd.Context())
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("charge") {
				ds.DeliveryCharge = charge
			}
			if f.Changed("free-threshold") {
				ds.FreeDeliveryThreshold = threshold
			}
			if f.Changed("free-active") {
				ds.IsActive = active
			}
			updated, err := a.svc.UpdateDeliverySettings(cmd.Context(), *ds)
			if err != nil {
				return err
			}
			return show(updated)
		},
	}
	set.Flags().Float64Var(&charge, "charge", 0, "delivery charge")
	set.Flags().Float64Var(&threshold, "free-threshold", 0, "order total from which delivery is free")
	set.Flags().BoolVar(&active, "free-active", false, "enable free delivery above the threshold")

	cmd.AddCommand(get, set)
	return cmd
}

// ── Stock ───────────────────────────────────────────────────────────────────

func stockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "stock", Short: "Track inventory movements"}

	history := &cobra.Command{
		Use:   "history <product-id>",
		Short: "Show the stock movements of a product",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var moves []admin.StockMovement
			err := a.fetch("stock history", func() (err error) {
				moves, err = a.svc.StockHistory(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			t := &table{
				header: []string{"When", "Type", "Qty", "Before", "After", "Reason", "Reference"},
				value:  nonEmpty(moves),
			}
			for _, m := range moves {
				t.add(stamp(m.CreatedAt), string(m.Type), itoa(m.Quantity), itoa(m.PreviousStock),
					itoa(m.NewStock), oneLine(m.Reason, 40), m.Reference)
			}
			return a.render(t, "No stock movements.")
		},
	}

	movement := func(use, short, defType string, apply func(context.Context, string, admin.StockChange) error) *cobra.Command {
		var (
			qty       int
			kind      string
			reason    string
			reference string
		)
		c := &cobra.Command{
			Use:   use + " <product-id>",
			Short: short,
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				change := admin.StockChange{
					Quantity:  qty,
					Type:      parseMovementType(kind),
					Reason:    reason,
					Reference: reference,
				}
				if err := apply(cmd.Context(), args[0], change); err != nil {
					return err
				}
				return a.done(change, fmt.Sprintf("Recorded %s of %d for %s.", change.Type, qty, args[0]))
			},
		}
		c.Flags().IntVar(&qty, "qty", 0, "quantity, must be positive")
		c.Flags().StringVar(&kind, "type", defType, "movement type")
		c.Flags().StringVar(&reason, "reason", "", "why the stock changed")
		c.Flags().StringVar(&reference, "reference", "", "invoice or document reference")
		return c
	}
	// a.svc exists only once the root pre-run hook ran, so calls resolve it late.
	add := movement("add", "Add stock (PURCHASE, RETURN or ADJUSTMENT)", string(admin.MovementPurchase),
		func(ctx context.Context, id string, c admin.StockChange) error {
			return a.svc.AddStock(ctx, id, c)
		})
	remove := movement("remove", "Remove stock (DAMAGE, LOSS or ADJUSTMENT)", string(admin.MovementDamage),
		func(ctx context.Context, id string, c admin.StockChange) error {
			return a.svc.RemoveStock(ctx, id, c)
		})

	var threshold int
	overview := &cobra.Command{
		Use:   "overview",
		Short: "Show the stock summary",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var ov *admin.StockOverview
			err := a.fetch("stock overview", func() (err error) {
				ov, err = a.svc.StockOverview(cmd.Context(), threshold)
				return err
			})
			if err != nil {
				return err
			}
			return a.renderPairs(ov, [][2]string{
				{"Products", itoa(ov.TotalProducts)},
				{"Out of stock", itoa(ov.OutOfStock)},
				{"Low stock", itoa(ov.LowStock)},
				{"Stock value", money(ov.TotalValue)},
			})
		},
	}
	overview.Flags().IntVar(&threshold, "threshold", 0, "low stock threshold (server default when unset)")

	items := func(what string, list func(context.Context) ([]admin.StockItem, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			var rows []admin.StockItem
			err := a.fetch(what, func() (err error) {
				rows, err = list(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			t := &table{header: []string{"ID", "Title", "Stock", "Price"}, value: nonEmpty(rows)}
			for _, it := range rows {
				t.add(it.ID, oneLine(it.Title, 40), itoa(it.Stock), money(it.Price))
			}
			return a.render(t, "Nothing to show.")
		}
	}

	var lowThreshold int
	low := &cobra.Command{
		Use:   "low",
		Short: "List products running low",
		Args:  noArgs,
		RunE: items("low stock", func(ctx context.Context) ([]admin.StockItem, error) {
			return a.svc.LowStock(ctx, lowThreshold)
		}),
	}
	low.Flags().IntVar(&lowThreshold, "threshold", 0, "low stock threshold (server default when unset)")

	out := &cobra.Command{
		Use:   "out",
		Short: "List products that are out of stock",
		Args:  noArgs,
		RunE: items("out of stock", func(ctx context.Context) ([]admin.StockItem, error) {
			return a.svc.OutOfStock(ctx)
		}),
	}

	cmd.AddCommand(history, add, remove, overview, low, out)
	return cmd
}

// ── Notifications ───────────────────────────────────────────────────────────

func notificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "notifications", Short: "Read shop notifications"}

	var (
		page   int
		unread bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, twenty per page",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var res *admin.NotificationPage
			err := a.fetch("notifications", func() (err error) {
				res, err = a.svc.ListNotifications(cmd.Context(), page, unread)
				return err
			})
			if err != nil {
				return err
			}
			res.Notifications = nonEmpty(res.Notifications)
			t := &table{header: []string{"ID", "When", "Type", "Title", "Message", "Read"}, value: res}
			for _, n := range res.Notifications {
				t.add(n.ID, stamp(n.CreatedAt), string(n.Type), oneLine(n.Title, 30), oneLine(n.Message, 50), yesNo(n.IsRead))
			}
			if err := a.render(t, "No notifications."); err != nil {
				return err
			}
			if a.cfg.Output == outputTable {
				fmt.Fprintf(a.out(), "%d unread, page %d of %d.\n", res.UnreadCount, res.CurrentPage, res.TotalPages)
			}
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 1, "page number")
	list.Flags().BoolVar(&unread, "unread", false, "only unread notifications")

	mark := func(use, short, done string, fn func(context.Context, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := fn(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.done(map[string]string{done: args[0]}, "Marked "+args[0]+" as "+done+".")
			},
		}
	}
	read := mark("read", "Mark a notification read", "read", func(ctx context.Context, id string) error {
		return a.svc.MarkNotificationRead(ctx, id)
	})
	unreadCmd := mark("unread", "Mark a notification unread", "unread", func(ctx context.Context, id string) error {
		return a.svc.MarkNotificationUnread(ctx, id)
	})

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification read",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.MarkAllNotificationsRead(cmd.Context()); err != nil {
				return err
			}
			return a.done(map[string]bool{"readAll": true}, "All notifications marked read.")
		},
	}
	clearRead := &cobra.Command{
		Use:   "clear-read",
		Short: "Delete read notifications",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.ClearReadNotifications(cmd.Context()); err != nil {
				return err
			}
			return a.done(map[string]bool{"cleared": true}, "Read notifications cleared.")
		},
	}

	cmd.AddCommand(list, read, unreadCmd, readAll, clearRead)
	return cmd
}

// ── Returns ─────────────────────────────────────────────────────────────────

func returnsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "returns", Short: "Record customer returns"}

	var (
		orderID string
		reason  string
		items   []string
		notes   string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Process a return and put the items back in stock",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := admin.ReturnRequest{OrderID: orderID, Reason: reason, Notes: notes}
			for _, it := range items {
				item, err := parseReturnItem(it)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, item)
			}
			res, err := a.svc.ProcessReturn(cmd.Context(), req)
			if err != nil {
				return err
			}
			msg := res.Message
			if msg == "" {
				msg = "Return processed."
			}
			return a.done(res, msg)
		},
	}
	f := create.Flags()
	f.StringVar(&orderID, "order", "", "order id")
	f.StringVar(&reason, "reason", "", "return reason")
	f.StringArrayVar(&items, "item", nil, "returned item as <product-id>:<qty>, repeatable")
	f.StringVar(&notes, "notes", "", "notes for the record")

	cmd.AddCommand(create)
	return cmd
}

func parseReturnItem(s string) (admin.ReturnItem, error) {
	id, qty, ok := strings.Cut(s, ":")
	if !ok {
		return admin.ReturnItem{ProductID: s, Quantity: 1}, nil
	}
	n, err := strconv.Atoi(qty)
	if err != nil {
		return admin.ReturnItem{}, usageError{fmt.Errorf("invalid quantity in --item %q", s)}
	}
	return admin.ReturnItem{ProductID: id, Quantity: n}, nil
}
