package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const returnsPath = "/admin/returns"

// ProcessReturn submits a return. The request needs an order, a reason and at least
// one item, each with a positive quantity.
func (s *Service) ProcessReturn(ctx context.Context, r ReturnRequest) (*ReturnResult, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	var out ReturnResult
	if err := s.send(ctx, http.MethodPost, returnsPath, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r ReturnRequest) validate() error {
	if r.OrderID == "" {
		return errors.New("order id is required")
	}
	if r.Reason == "" {
		return errors.New("return reason is required")
	}
	if len(r.Items) == 0 {
		return errors.New("at least one item is required")
	}
	for _, it := range r.Items {
		if it.ProductID == "" {
			return errors.New("item product id is required")
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item %s: quantity must be positive", it.ProductID)
		}
	}
	return nil
}
