package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// IncrementStock adds qty to a variant's stock counter as a single
// database-side operation. No read-modify-write, so concurrent restocks on the
// same variant never lose an increment. There is no upper bound: stock can be
// corrected out of band with manual counts.
func (r *Repo) IncrementStock(ctx context.Context, variantID string, qty int) error {
	if qty < 1 {
		qty = 1
	}

	return withRetry(ctx, 3, func() error {
		res := r.db.WithContext(ctx).
			Model(&Variant{}).
			Where("id = ?", variantID).
			Updates(map[string]any{
				"stock_quantity": gorm.Expr("stock_quantity + ?", qty),
				"updated_at":     time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *Repo) Get(ctx context.Context, id string) (Variant, error) {
	var v Variant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return v, err
}

// --- retry helper (deadlock/lock timeout) ---

func withRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error

	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if isRetryableMySQLError(err) && i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(50*(i+1)) * time.Millisecond):
			}
			continue
		}
		return err
	}
	return lastErr
}

func isRetryableMySQLError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1213: Deadlock found; 1205: Lock wait timeout
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}
