package user

import (
	"context"

	"github.com/yourbuzzfeed/core/internal/config"
	"github.com/yourbuzzfeed/core/internal/models"
	"github.com/yourbuzzfeed/core/internal/pkg/apperr"
	"github.com/yourbuzzfeed/core/internal/pkg/password"
	"github.com/yourbuzzfeed/core/internal/storage"
	"go.uber.org/zap"
)

// dummyHash is verified against when the username is unknown so both
// failure paths cost one key derivation.
var dummyHash, _ = password.Hash("yourbuzzfeed-dummy-password")

type Service struct {
	store storage.Storage
	log   *zap.Logger
}

func NewService(store storage.Storage, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("user")}
}

// Login checks credentials. Unknown users and wrong passwords fail with the
// same Unauthorized error.
func (s *Service) Login(ctx context.Context, username, plain string) (*models.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		password.Verify(plain, dummyHash)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	if !password.Verify(plain, u.Password) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	if password.NeedsRehash(u.Password) {
		if hash, err := password.Hash(plain); err == nil {
			if _, err := s.store.UpdateUser(ctx, u.ID, storage.UserPatch{Password: &hash}); err != nil {
				s.log.Warn("rehash legacy password failed", zap.Uint("userId", u.ID), zap.Error(err))
			}
		}
	}
	return u, nil
}

// Current returns the user behind an authenticated session.
func (s *Service) Current(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.Unauthorized("")
	}
	return u, nil
}

// SetupAdmin creates the first admin. It fails with Conflict once any
// admin exists.
func (s *Service) SetupAdmin(ctx context.Context, dto SetupAdminDTO) (*models.User, error) {
	existing, err := s.store.GetAdminUser(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict(msgAdminExists)
	}
	return s.createAdmin(ctx, dto.Username, dto.Password, dto.Email, dto.FullName)
}

// EnsureSeedAdmin creates the configured admin when none exists. It reports
// whether a user was created.
func (s *Service) EnsureSeedAdmin(ctx context.Context, seed config.AdminSeedConfig) (bool, error) {
	if seed.Username == "" || seed.Password == "" {
		return false, nil
	}
	existing, err := s.store.GetAdminUser(ctx)
	if err != nil || existing != nil {
		return false, err
	}
	email := seed.Email
	if email == "" {
		email = seed.Username + "@yourbuzzfeed.local"
	}
	fullName := seed.FullName
	if fullName == "" {
		fullName = "Administrator"
	}
	if _, err := s.createAdmin(ctx, seed.Username, seed.Password, email, fullName); err != nil {
		return false, err
	}
	s.log.Info("seeded admin user", zap.String("username", seed.Username))
	return true, nil
}

func (s *Service) createAdmin(ctx context.Context, username, plain, email, fullName string) (*models.User, error) {
	hash, err := password.Hash(plain)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.store.CreateUser(ctx, &models.User{
		Username: username,
		Password: hash,
		Email:    email,
		FullName: fullName,
		IsAdmin:  true,
	})
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, id uint, dto ChangePasswordDTO) error {
	u, err := s.Current(ctx, id)
	if err != nil {
		return err
	}
	if !password.Verify(dto.CurrentPassword, u.Password) {
		return apperr.Unauthorized("Current password is incorrect")
	}
	hash, err := password.Hash(dto.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	_, err = s.store.UpdateUser(ctx, id, storage.UserPatch{Password: &hash})
	return err
}

// EmergencyAdmin returns the admin profile without authentication. Only
// reachable when auth.emergency_admin is on.
func (s *Service) EmergencyAdmin(ctx context.Context) (*models.User, error) {
	u, err := s.store.GetAdminUser(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("Admin user")
	}
	return u, nil
}
