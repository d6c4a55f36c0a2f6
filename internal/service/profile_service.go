package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/config"
	"comicshare/internal/models"
	"comicshare/internal/repository"
	"comicshare/internal/storage"
)

// SettingsUpdate carries the fields a user may change. Nil leaves a field as is.
type SettingsUpdate struct {
	Username           *string `json:"username" validate:"omitempty,min=3,max=32,alphanumunicode"`
	DisplayName        *string `json:"displayName" validate:"omitempty,max=64"`
	Theme              *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	EmailNotifications *bool   `json:"emailNotifications"`
	PushNotifications  *bool   `json:"pushNotifications"`
}

type ProfileService interface {
	Get(ctx context.Context, session *auth.Session) (*models.Profile, error)
	UpdateSettings(ctx context.Context, session *auth.Session, update SettingsUpdate) (*models.Profile, error)
	UploadAvatar(ctx context.Context, session *auth.Session, r io.Reader) (*models.Profile, error)
	DeleteAccount(ctx context.Context, session *auth.Session) error
}

type profileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	storage     storage.Storage
	cfg         *config.Config
	log         *zap.Logger
}

func NewProfileService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, store storage.Storage, cfg *config.Config, log *zap.Logger) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		storage:     store,
		cfg:         cfg,
		log:         log,
	}
}

func (s *profileService) Get(ctx context.Context, session *auth.Session) (*models.Profile, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, session.UserID)
}

func (s *profileService) UpdateSettings(ctx context.Context, session *auth.Session, update SettingsUpdate) (*models.Profile, error) {
	profile, err := s.Get(ctx, session)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, apperr.Validation("username must not be empty")
		}
		profile.Username = username
	}
	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" {
			profile.DisplayName = nil
		} else {
			profile.DisplayName = &name
		}
	}
	if update.Theme != nil {
		profile.Theme = *update.Theme
	}
	if update.EmailNotifications != nil {
		profile.EmailNotifications = *update.EmailNotifications
	}
	if update.PushNotifications != nil {
		profile.PushNotifications = *update.PushNotifications
	}

	if err := s.profileRepo.UpdateSettings(ctx, profile); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return profile, nil
}

// UploadAvatar replaces the avatar object in place; its key is fixed per user.
func (s *profileService) UploadAvatar(ctx context.Context, session *auth.Session, r io.Reader) (*models.Profile, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	url, _, err := storeImage(ctx, s.storage, storage.AvatarKey(session.UserID), r, s.cfg.Upload.MaxUploadSize)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.UpdateAvatar(ctx, session.UserID, url); err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}
	return s.profileRepo.GetByUserID(ctx, session.UserID)
}

// DeleteAccount removes the user row, which cascades to every owned row, then
// removes the user's objects. Object cleanup failures are logged only.
func (s *profileService) DeleteAccount(ctx context.Context, session *auth.Session) error {
	if err := requireSession(session); err != nil {
		return err
	}

	if err := s.userRepo.DeleteUser(ctx, session.UserID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	cleanupCtx := context.WithoutCancel(ctx)
	if err := s.storage.Delete(cleanupCtx, storage.AvatarKey(session.UserID)); err != nil {
		s.log.Warn("avatar cleanup failed", zap.String("user_id", session.UserID), zap.Error(err))
	}
	if err := s.storage.DeletePrefix(cleanupCtx, storage.UserPrefix(session.UserID)); err != nil {
		s.log.Warn("user comics cleanup failed", zap.String("user_id", session.UserID), zap.Error(err))
	}
	return nil
}
