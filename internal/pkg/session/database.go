package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yourbuzzfeed/core/internal/models"
	"gorm.io/gorm"
)

// DatabaseStore keeps sessions in the user_sessions table.
type DatabaseStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ Store = (*DatabaseStore)(nil)

func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db, now: time.Now}
}

func (d *DatabaseStore) Create(ctx context.Context, userID uint, ttl time.Duration) (*Session, error) {
	s := newSession(uuid.NewString(), userID, ttl, d.now())
	row := models.UserSession{
		Token:     s.Token,
		UserID:    s.UserID,
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
	if err := d.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (d *DatabaseStore) Get(ctx context.Context, token string) (*Session, error) {
	var row models.UserSession
	err := d.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, d.now()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     row.Token,
		UserID:    row.UserID,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (d *DatabaseStore) Delete(ctx context.Context, token string) error {
	return d.db.WithContext(ctx).Where("token = ?", token).Delete(&models.UserSession{}).Error
}

func (d *DatabaseStore) Sweep(ctx context.Context) (int64, error) {
	res := d.db.WithContext(ctx).Where("expires_at <= ?", d.now()).Delete(&models.UserSession{})
	return res.RowsAffected, res.Error
}
