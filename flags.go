package main

import (
	"fmt"
	"strings"

	"github.com/go-authgate/shop-admin-cli/admin"
	"github.com/spf13/cobra"
)

// The helpers below return nil for flags the user did not pass, so one input type
// serves create and partial update.

func strFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func statusFlag(cmd *cobra.Command) (*admin.Status, error) {
	s := strFlag(cmd, "status")
	if s == nil {
		return nil, nil
	}
	st, err := parseStatus(*s)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func parseStatus(s string) (admin.Status, error) {
	switch st := admin.Status(strings.ToUpper(s)); st {
	case admin.StatusActive, admin.StatusHidden:
		return st, nil
	default:
		return "", usageError{fmt.Errorf("status must be ACTIVE or HIDDEN, got: %s", s)}
	}
}

func parseOrderStatus(s string) (admin.OrderStatus, error) {
	st := admin.OrderStatus(strings.ToUpper(s))
	switch st {
	case "", admin.OrderPending, admin.OrderInProgress, admin.OrderInShipping,
		admin.OrderDelivered, admin.OrderCancelled, admin.OrderReturned:
		return st, nil
	default:
		return "", usageError{fmt.Errorf("unknown order status: %s", s)}
	}
}

func parseMovementType(s string) admin.MovementType {
	return admin.MovementType(strings.ToUpper(s))
}

// nonEmpty makes JSON output print [] rather than null for empty listings.
func nonEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
