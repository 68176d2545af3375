package news

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sync"
	"time"

	"github.com/yourbuzzfeed/core/internal/models"
	pkgredis "github.com/yourbuzzfeed/core/internal/pkg/redis"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	seenTTL       = 72 * time.Hour
	seenKeyPrefix = "ybf:news:seen:"
)

// SeenSet remembers story URLs that were already claimed for publishing.
type SeenSet interface {
	// Claim records url and reports whether it was new.
	Claim(ctx context.Context, url string) (bool, error)
	// Release forgets url so a failed story can be retried next run.
	Release(ctx context.Context, url string) error
}

type memorySeen struct {
	mu   sync.Mutex
	urls map[string]time.Time
	now  func() time.Time
}

func NewMemorySeen() SeenSet {
	return &memorySeen{urls: make(map[string]time.Time), now: time.Now}
}

func (m *memorySeen) Claim(_ context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for u, at := range m.urls {
		if now.Sub(at) > seenTTL {
			delete(m.urls, u)
		}
	}
	if _, ok := m.urls[url]; ok {
		return false, nil
	}
	m.urls[url] = now
	return true, nil
}

func (m *memorySeen) Release(_ context.Context, url string) error {
	m.mu.Lock()
	delete(m.urls, url)
	m.mu.Unlock()
	return nil
}

type redisSeen struct {
	rc *pkgredis.Client
}

// NewRedisSeen shares the seen set across instances and restarts.
func NewRedisSeen(rc *pkgredis.Client) SeenSet {
	return &redisSeen{rc: rc}
}

func seenHash(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func seenKey(url string) string {
	return seenKeyPrefix + seenHash(url)
}

func (r *redisSeen) Claim(ctx context.Context, url string) (bool, error) {
	return r.rc.SetNX(ctx, seenKey(url), 1, seenTTL)
}

func (r *redisSeen) Release(ctx context.Context, url string) error {
	return r.rc.Del(ctx, seenKey(url))
}

type databaseSeen struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDatabaseSeen keeps the seen set in the seen_stories table so it
// survives restarts without Redis.
func NewDatabaseSeen(db *gorm.DB) SeenSet {
	return &databaseSeen{db: db, now: time.Now}
}

func (d *databaseSeen) Claim(ctx context.Context, url string) (bool, error) {
	now := d.now()
	hash := seenHash(url)
	tx := d.db.WithContext(ctx)
	if err := tx.Where("created_at < ?", now.Add(-seenTTL)).Delete(&models.SeenStory{}).Error; err != nil {
		return false, err
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SeenStory{Hash: hash, URL: url, CreatedAt: now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (d *databaseSeen) Release(ctx context.Context, url string) error {
	return d.db.WithContext(ctx).Where("hash = ?", seenHash(url)).Delete(&models.SeenStory{}).Error
}
