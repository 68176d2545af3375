package storage

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// categoryPalette holds {text, background} pairs for auto-created categories.
var categoryPalette = [][2]string{
	{"#e11d48", "#ffe4e6"},
	{"#7c3aed", "#ede9fe"},
	{"#2563eb", "#dbeafe"},
	{"#059669", "#d1fae5"},
	{"#d97706", "#fef3c7"},
	{"#db2777", "#fce7f3"},
	{"#0891b2", "#cffafe"},
}

func paletteFor(name string) (string, string) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	pair := categoryPalette[int(h.Sum32()%uint32(len(categoryPalette)))]
	return pair[0], pair[1]
}

func (s *DatabaseStorage) GetCategories(ctx context.Context) ([]models.Category, error) {
	cats := make([]models.Category, 0)
	if err := s.conn(ctx).Find(&cats).Error; err != nil {
		return nil, dbErr("list categories", err)
	}
	return cats, nil
}

func (s *DatabaseStorage) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	ok, err := first(s.conn(ctx).Where("id = ?", id), &c)
	if err != nil {
		return nil, dbErr("get category", err)
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *DatabaseStorage) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	ok, err := first(s.conn(ctx).Where("slug = ?", slug), &c)
	if err != nil {
		return nil, dbErr("get category by slug", err)
	}
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *DatabaseStorage) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := *c
	row.ID = 0
	row.Name = strings.TrimSpace(row.Name)
	if row.Slug == "" {
		row.Slug = Slugify(row.Name)
	}
	if row.Slug == "" {
		return nil, apperr.Validation("Category slug cannot be empty")
	}
	if row.Color == "" || row.BgColor == "" {
		fg, bg := paletteFor(row.Name)
		if row.Color == "" {
			row.Color = fg
		}
		if row.BgColor == "" {
			row.BgColor = bg
		}
	}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return nil, writeErr("create category", "Category slug already exists", err)
	}
	return &row, nil
}

// EnsureCategory returns the category whose slug matches name, creating it
// when missing. Concurrent callers converge on the same row.
func (s *DatabaseStorage) EnsureCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	slug := Slugify(name)
	if slug == "" {
		return nil, apperr.Validation("Category name cannot be empty")
	}

	existing, err := s.GetCategoryBySlug(ctx, slug)
	if err != nil || existing != nil {
		return existing, err
	}

	fg, bg := paletteFor(name)
	row := models.Category{Name: name, Slug: slug, Color: fg, BgColor: bg}
	err = s.conn(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return nil, dbErr("ensure category", err)
	}
	return s.GetCategoryBySlug(ctx, slug)
}

func (s *DatabaseStorage) UpdateCategory(ctx context.Context, id uint, patch CategoryPatch) (*models.Category, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Slug != nil {
		slug := Slugify(*patch.Slug)
		if slug == "" {
			return nil, apperr.Validation("Category slug cannot be empty")
		}
		updates["slug"] = slug
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if patch.BgColor != nil {
		updates["bg_color"] = *patch.BgColor
	}

	current, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Category")
	}
	if len(updates) == 0 {
		return current, nil
	}
	if err := s.conn(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, writeErr("update category", "Category slug already exists", err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory detaches the category's articles and removes the row.
func (s *DatabaseStorage) DeleteCategory(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Article{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return dbErr("detach category articles", err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return dbErr("delete category", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Category")
		}
		return nil
	})
}
