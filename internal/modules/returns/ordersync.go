package returns

import (
	"context"
	"log/slog"

	"ateliernoor.nl/app/internal/modules/orders"
)

// OrderStatusFor maps a return status onto the parent order's visible status.
// A rejected return reverts the order to delivered, its pre-return state.
// The boolean is false for statuses that deliberately have no order-side
// effect; callers treat that as a no-op, not an error.
func OrderStatusFor(s Status) (string, bool) {
	switch s {
	case StatusRequested, StatusApproved, StatusLabelPaymentPending,
		StatusLabelPaymentCompleted, StatusLabelGenerated:
		return orders.StatusReturnRequested, true
	case StatusInTransit:
		return orders.StatusReturnInTransit, true
	case StatusReceived, StatusRefundProcessing:
		return orders.StatusReturnReceived, true
	case StatusRefunded:
		return orders.StatusReturnCompleted, true
	case StatusRejected:
		return orders.StatusDelivered, true
	}
	return "", false
}

func (s *Service) syncOrderStatus(ctx context.Context, orderID string, rs Status) error {
	st, ok := OrderStatusFor(rs)
	if !ok {
		s.log.LogAttrs(ctx, slog.LevelWarn, "order_sync_no_mapping",
			slog.String("order_id", orderID),
			slog.String("return_status", string(rs)),
		)
		return nil
	}
	return orders.NewRepo(s.db).UpdateStatus(ctx, orderID, st)
}
