package returns

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ateliernoor.nl/app/internal/modules/email"
	"ateliernoor.nl/app/internal/modules/orders"
)

// Service is the return state machine. All status transitions go through it:
// it validates the current-state precondition, commits the new status plus a
// history row (and outbox tasks) in one transaction, and only then runs side
// effects. Side-effect failures never undo a committed transition.
type Service struct {
	db     *gorm.DB
	mailer email.Service
	log    *slog.Logger
}

func NewService(db *gorm.DB, mailer email.Service, log *slog.Logger) *Service {
	return &Service{db: db, mailer: mailer, log: log}
}

type RejectInput struct {
	ReturnID    string
	ActorUserID string
	Reason      string
	AdminNotes  string
}

// Reject moves a return from return_requested to return_rejected and reverts
// the order to delivered. The customer gets a best-effort notification mail.
func (s *Service) Reject(ctx context.Context, in RejectInput) (Return, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return Return{}, ErrReasonRequired
	}

	repo := NewRepo(s.db)
	ret, err := repo.Get(ctx, in.ReturnID)
	if err != nil {
		return Return{}, err
	}
	if ret.Status != StatusRequested {
		return Return{}, &InvalidTransitionError{Current: ret.Status, Action: "reject"}
	}

	// Overwrites whatever notes were there before; the rejection reason is the
	// note that matters from here on.
	notes := reason
	if n := strings.TrimSpace(in.AdminNotes); n != "" {
		notes = reason + "\n\n" + n
	}

	now := time.Now()
	var syncTask Task

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Return{}).
			Where("id = ? AND status = ?", ret.ID, StatusRequested).
			Updates(map[string]any{
				"status":      StatusRejected,
				"admin_notes": notes,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost a race against a concurrent transition
			var cur Return
			if err := tx.Select("status").First(&cur, "id = ?", ret.ID).Error; err != nil {
				return err
			}
			return &InvalidTransitionError{Current: cur.Status, Action: "reject"}
		}

		hist := StatusHistory{
			ID:          uuid.NewString(),
			ReturnID:    ret.ID,
			Status:      StatusRejected,
			ActorUserID: strPtr(in.ActorUserID),
			Notes:       &reason,
			CreatedAt:   now,
		}
		if err := tx.Create(&hist).Error; err != nil {
			return err
		}

		t, terr := newTask(ret.ID, TaskOrderSync, orderSyncPayload{OrderID: ret.OrderID, ReturnStatus: StatusRejected})
		if terr != nil {
			return terr
		}
		syncTask = t
		return tx.Create(&syncTask).Error
	})
	if err != nil {
		return Return{}, err
	}

	s.processTasks(ctx, []Task{syncTask})
	s.sendRejectionMail(ctx, ret, reason)

	return repo.Get(ctx, ret.ID)
}

type ConfirmReceivedInput struct {
	ReturnID    string
	ActorUserID string
	AdminNotes  string
}

// ConfirmReceived marks the goods as physically back in the warehouse. It
// accepts return_in_transit and return_label_generated: carrier tracking is
// best-effort and a parcel can arrive before transit was ever reported.
// Restock and order sync run after the status is durably committed.
func (s *Service) ConfirmReceived(ctx context.Context, in ConfirmReceivedInput) (Return, error) {
	repo := NewRepo(s.db)
	ret, err := repo.Get(ctx, in.ReturnID)
	if err != nil {
		return Return{}, err
	}
	if !statusIn(ret.Status, receivableFrom) {
		return Return{}, &InvalidTransitionError{Current: ret.Status, Action: "receive"}
	}

	// Resolve variants up front; order items are immutable so this cannot go
	// stale between here and the commit.
	_, orderItems, err := orders.NewRepo(s.db).GetWithItems(ctx, ret.OrderID)
	if err != nil {
		return Return{}, err
	}
	variantByItem := make(map[string]*string, len(orderItems))
	for i := range orderItems {
		variantByItem[orderItems[i].ID] = orderItems[i].VariantID
	}

	now := time.Now()
	updates := map[string]any{
		"status":      StatusReceived,
		"received_at": now,
		"updated_at":  now,
	}
	newNotes := strings.TrimSpace(in.AdminNotes)
	if newNotes != "" {
		// only replace notes when the admin actually typed something
		updates["admin_notes"] = newNotes
	}

	var tasks []Task

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Return{}).
			Where("id = ? AND status IN ?", ret.ID, receivableFrom).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var cur Return
			if err := tx.Select("status").First(&cur, "id = ?", ret.ID).Error; err != nil {
				return err
			}
			return &InvalidTransitionError{Current: cur.Status, Action: "receive"}
		}

		hist := StatusHistory{
			ID:          uuid.NewString(),
			ReturnID:    ret.ID,
			Status:      StatusReceived,
			ActorUserID: strPtr(in.ActorUserID),
			Notes:       strPtr(newNotes),
			CreatedAt:   now,
		}
		if err := tx.Create(&hist).Error; err != nil {
			return err
		}

		// One restock task per return item. Items pointing at the same variant
		// stay separate: increments commute, so order does not matter.
		for _, it := range ret.Items {
			vid := variantByItem[it.OrderItemID]
			if vid == nil || *vid == "" {
				continue
			}
			t, terr := newTask(ret.ID, TaskRestock, restockPayload{VariantID: *vid, Quantity: it.Quantity})
			if terr != nil {
				return terr
			}
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
			tasks = append(tasks, t)
		}

		t, terr := newTask(ret.ID, TaskOrderSync, orderSyncPayload{OrderID: ret.OrderID, ReturnStatus: StatusReceived})
		if terr != nil {
			return terr
		}
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		tasks = append(tasks, t)
		return nil
	})
	if err != nil {
		return Return{}, err
	}

	s.processTasks(ctx, tasks)

	return repo.Get(ctx, ret.ID)
}

type FetchInput struct {
	ReturnID    string
	RequesterID string
	IsAdmin     bool
}

type FetchResult struct {
	Return  Return
	Order   orders.Order
	Items   []orders.OrderItem
	History []StatusHistory
}

// Fetch loads a return joined with its order and the full timeline. Only the
// order's owning user or an admin may read it.
func (s *Service) Fetch(ctx context.Context, in FetchInput) (FetchResult, error) {
	repo := NewRepo(s.db)

	ret, err := repo.Get(ctx, in.ReturnID)
	if err != nil {
		return FetchResult{}, err
	}

	ord, items, err := orders.NewRepo(s.db).GetWithItems(ctx, ret.OrderID)
	if err != nil {
		return FetchResult{}, err
	}

	if !in.IsAdmin {
		owner := ord.UserID != nil && in.RequesterID != "" && *ord.UserID == in.RequesterID
		if !owner {
			return FetchResult{}, ErrForbidden
		}
	}

	hist, err := repo.History(ctx, ret.ID)
	if err != nil {
		return FetchResult{}, err
	}

	return FetchResult{Return: ret, Order: ord, Items: items, History: hist}, nil
}

func (s *Service) sendRejectionMail(ctx context.Context, ret Return, reason string) {
	ord, err := orders.NewRepo(s.db).Get(ctx, ret.OrderID)
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "rejection_mail_order_lookup_failed",
			slog.String("return_id", ret.ID),
			slog.String("order_id", ret.OrderID),
			slog.Any("err", err),
		)
		return
	}

	if err := email.SendReturnRejected(s.mailer, ord.Email, ord.ShippingName, ret.ID, ord.ID, reason); err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "rejection_mail_failed",
			slog.String("return_id", ret.ID),
			slog.String("order_id", ord.ID),
			slog.String("to", ord.Email),
			slog.Any("err", err),
		)
	}
}

func statusIn(s Status, set []Status) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
