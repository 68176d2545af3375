package storage

import (
	"context"

	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
)

func (s *DatabaseStorage) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	ok, err := first(s.conn(ctx).Where("id = ?", id), &u)
	if err != nil {
		return nil, dbErr("get user", err)
	}
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *DatabaseStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	ok, err := first(s.conn(ctx).Where("username = ?", username), &u)
	if err != nil {
		return nil, dbErr("get user by username", err)
	}
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// GetAdminUser returns the oldest admin account.
func (s *DatabaseStorage) GetAdminUser(ctx context.Context) (*models.User, error) {
	var u models.User
	ok, err := first(s.conn(ctx).Where("is_admin = ?", true).Order("id ASC"), &u)
	if err != nil {
		return nil, dbErr("get admin user", err)
	}
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *DatabaseStorage) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	row := *u
	row.ID = 0
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return nil, writeErr("create user", "Username or email already exists", err)
	}
	return &row, nil
}

func (s *DatabaseStorage) UpdateUser(ctx context.Context, id uint, patch UserPatch) (*models.User, error) {
	updates := map[string]interface{}{}
	if patch.Password != nil {
		updates["password"] = *patch.Password
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.FullName != nil {
		updates["full_name"] = *patch.FullName
	}
	if patch.IsAdmin != nil {
		updates["is_admin"] = *patch.IsAdmin
	}

	current, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("User")
	}
	if len(updates) == 0 {
		return current, nil
	}

	if err := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, writeErr("update user", "Email already in use", err)
	}
	return s.GetUser(ctx, id)
}
