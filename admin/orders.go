package admin

import (
	"context"
	"net/url"
	"strconv"
)

const (
	ordersPath = "/admin/orders"

	// listAllPageSize is the page size ListAll walks the order listing with.
	listAllPageSize = 100
)

func (f OrderFilter) query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	return q
}

func (s *Service) ListOrders(ctx context.Context, f OrderFilter) (*OrderPage, error) {
	var out OrderPage
	if err := s.get(ctx, ordersPath, f.query(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, errMissingID
	}
	var out Order
	if err := s.get(ctx, itemPath(ordersPath, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAll pages through every order matching f (its Page and Limit are ignored).
// progress, when non-nil, is called after each page with the running count and the
// server's total.
func (s *Service) ListAll(
	ctx context.Context,
	f OrderFilter,
	progress func(fetched, total int),
) ([]Order, error) {
	f.Limit = listAllPageSize

	var all []Order
	for page := 1; ; page++ {
		f.Page = page
		res, err := s.ListOrders(ctx, f)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if progress != nil {
			progress(len(all), res.Total)
		}
		if len(res.Items) < listAllPageSize || len(all) >= res.Total {
			return all, nil
		}
	}
}
