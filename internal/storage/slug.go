package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const maxSlugAttempts = 50

// Slugify derives a URL-safe slug from a title or name.
func Slugify(s string) string {
	return slug.Make(strings.TrimSpace(s))
}

// uniqueSlug returns base, or base-2, base-3, ... whichever is free in the
// table behind model. Falls back to a random suffix after many collisions.
func uniqueSlug(tx *gorm.DB, model interface{}, base, fallbackPrefix string) (string, error) {
	if base == "" {
		base = fallbackPrefix + "-" + shortID()
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		var count int64
		if err := tx.Model(model).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + shortID(), nil
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
