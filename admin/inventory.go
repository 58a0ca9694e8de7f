package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	deliveryPath  = "/admin/delivery-settings"
	stockPath     = "/admin/stock"
	stockHistory  = "stock/history"
	stockAddOp    = "stock/add"
	stockRemoveOp = "stock/remove"
)

var (
	addTypes    = []MovementType{MovementPurchase, MovementReturn, MovementAdjustment}
	removeTypes = []MovementType{MovementDamage, MovementLoss, MovementAdjustment}
)

func (s *Service) GetDeliverySettings(ctx context.Context) (*DeliverySettings, error) {
	var out DeliverySettings
	if err := s.get(ctx, deliveryPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) UpdateDeliverySettings(ctx context.Context, in DeliverySettings) (*DeliverySettings, error) {
	if in.FreeDeliveryThreshold < 0 || in.DeliveryCharge < 0 {
		return nil, fmt.Errorf("delivery amounts must not be negative")
	}
	var out DeliverySettings
	if err := s.send(ctx, http.MethodPatch, deliveryPath, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func productStockPath(productID, op string) string {
	return itemPath(productsPath, productID) + "/" + op
}

func (s *Service) StockHistory(ctx context.Context, productID string) ([]StockMovement, error) {
	if productID == "" {
		return nil, errMissingID
	}
	var out []StockMovement
	if err := s.get(ctx, productStockPath(productID, stockHistory), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddStock records incoming stock. Only purchase, return and adjustment movements can
// add stock.
func (s *Service) AddStock(ctx context.Context, productID string, c StockChange) error {
	if err := validateChange(productID, c, addTypes); err != nil {
		return err
	}
	return s.send(ctx, http.MethodPost, productStockPath(productID, stockAddOp), c, nil)
}

// RemoveStock records outgoing stock. Only damage, loss and adjustment movements can
// remove stock.
func (s *Service) RemoveStock(ctx context.Context, productID string, c StockChange) error {
	if err := validateChange(productID, c, removeTypes); err != nil {
		return err
	}
	return s.send(ctx, http.MethodPost, productStockPath(productID, stockRemoveOp), c, nil)
}

func validateChange(productID string, c StockChange, allowed []MovementType) error {
	if productID == "" {
		return errMissingID
	}
	if c.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", c.Quantity)
	}
	for _, t := range allowed {
		if c.Type == t {
			return nil
		}
	}
	return fmt.Errorf("movement type %q not allowed here, expected one of %v", c.Type, allowed)
}

func thresholdQuery(threshold int) url.Values {
	if threshold <= 0 {
		return nil
	}
	return url.Values{"threshold": {strconv.Itoa(threshold)}}
}

// StockOverview returns the server-side stock summary. A non-positive threshold uses
// the server default.
func (s *Service) StockOverview(ctx context.Context, threshold int) (*StockOverview, error) {
	var out StockOverview
	if err := s.get(ctx, stockPath+"/overview", thresholdQuery(threshold), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) LowStock(ctx context.Context, threshold int) ([]StockItem, error) {
	var out []StockItem
	if err := s.get(ctx, stockPath+"/low-stock", thresholdQuery(threshold), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) OutOfStock(ctx context.Context) ([]StockItem, error) {
	var out []StockItem
	if err := s.get(ctx, stockPath+"/out-of-stock", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
