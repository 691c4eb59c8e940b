package returns

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"ateliernoor.nl/app/internal/modules/catalog"
)

// Side-effect tasks are written in the same transaction as the status change
// and attempted right after commit. A crash between commit and attempt leaves
// the task pending with the context an operator needs to replay it.
const (
	TaskRestock   = "restock"
	TaskOrderSync = "order_sync"

	TaskPending = "pending"
	TaskDone    = "done"
)

type Task struct {
	ID       string `gorm:"primaryKey;size:36"`
	ReturnID string `gorm:"size:36;index"`
	Kind     string `gorm:"size:20"`

	Payload datatypes.JSON

	Status    string `gorm:"size:10;index"`
	Attempts  int
	LastError *string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Task) TableName() string { return "return_outbox_tasks" }

type restockPayload struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type orderSyncPayload struct {
	OrderID      string `json:"order_id"`
	ReturnStatus Status `json:"return_status"`
}

func newTask(returnID, kind string, payload any) (Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Task{}, err
	}
	now := time.Now()
	return Task{
		ID:        uuid.NewString(),
		ReturnID:  returnID,
		Kind:      kind,
		Payload:   datatypes.JSON(raw),
		Status:    TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// processTasks runs committed side effects in order. A failed task never
// propagates: it is logged and left pending with last_error filled in.
func (s *Service) processTasks(ctx context.Context, tasks []Task) {
	for _, t := range tasks {
		err := s.runTask(ctx, t)

		updates := map[string]any{
			"attempts":   t.Attempts + 1,
			"updated_at": time.Now(),
		}
		if err == nil {
			updates["status"] = TaskDone
		} else {
			msg := err.Error()
			if len(msg) > 500 {
				msg = msg[:500]
			}
			updates["last_error"] = msg

			s.log.LogAttrs(ctx, slog.LevelError, "return_side_effect_failed",
				slog.String("task_id", t.ID),
				slog.String("return_id", t.ReturnID),
				slog.String("kind", t.Kind),
				slog.Any("err", err),
			)
		}

		if uerr := s.db.WithContext(ctx).Model(&Task{}).Where("id = ?", t.ID).Updates(updates).Error; uerr != nil {
			s.log.LogAttrs(ctx, slog.LevelError, "return_task_update_failed",
				slog.String("task_id", t.ID),
				slog.Any("err", uerr),
			)
		}
	}
}

func (s *Service) runTask(ctx context.Context, t Task) error {
	switch t.Kind {
	case TaskRestock:
		var p restockPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return err
		}
		return catalog.NewRepo(s.db).IncrementStock(ctx, p.VariantID, p.Quantity)

	case TaskOrderSync:
		var p orderSyncPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return err
		}
		return s.syncOrderStatus(ctx, p.OrderID, p.ReturnStatus)

	default:
		return fmt.Errorf("unknown task kind: %s", t.Kind)
	}
}
