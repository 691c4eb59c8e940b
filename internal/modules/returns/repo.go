package returns

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Get(ctx context.Context, id string) (Return, error) {
	var ret Return
	err := r.db.WithContext(ctx).Preload("Items").First(&ret, "id = ?", id).Error
	return ret, err
}

// History returns the full audit trail, newest first.
func (r *Repo) History(ctx context.Context, returnID string) ([]StatusHistory, error) {
	var hist []StatusHistory
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&hist, "return_id = ?", returnID).Error
	return hist, err
}

// SetLabelArchiveKey records where a proxied label was archived. Best-effort
// bookkeeping; callers ignore the error beyond logging.
func (r *Repo) SetLabelArchiveKey(ctx context.Context, id, key string) error {
	return r.db.WithContext(ctx).
		Model(&Return{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"label_archive_key": key,
			"updated_at":        time.Now(),
		}).Error
}

// PendingTasks lists side-effect tasks that still need (manual) replay.
func (r *Repo) PendingTasks(ctx context.Context, returnID string) ([]Task, error) {
	var tasks []Task
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&tasks, "return_id = ? AND status = ?", returnID, TaskPending).Error
	return tasks, err
}
