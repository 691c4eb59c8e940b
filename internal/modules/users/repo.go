package users

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// BySessionToken resolves a session token to its user. Expired sessions are
// treated as not found.
func (r *Repo) BySessionToken(ctx context.Context, token string) (User, error) {
	var sess Session
	if err := r.db.WithContext(ctx).First(&sess, "token = ?", token).Error; err != nil {
		return User{}, err
	}
	if time.Now().After(sess.ExpiresAt) {
		return User{}, gorm.ErrRecordNotFound
	}

	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", sess.UserID).Error
	return u, err
}
