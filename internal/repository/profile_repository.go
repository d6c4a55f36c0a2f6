package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"comicshare/internal/database"
	"comicshare/internal/models"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile

	query := `SELECT * FROM profiles WHERE user_id = $1`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &profile, query, userID); err != nil {
		return nil, translate(err, "get profile", "profile not found")
	}
	return &profile, nil
}

func (r *profileRepository) UpdateSettings(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET username = :username,
		    display_name = :display_name,
		    theme = :theme,
		    email_notifications = :email_notifications,
		    push_notifications = :push_notifications,
		    updated_at = now()
		WHERE user_id = :user_id
	`

	result, err := sqlx.NamedExecContext(ctx, database.Conn(ctx, r.db), query, profile)
	if err != nil {
		return translate(err, "update profile settings", "profile not found")
	}
	return expectRows(result, "update profile settings", "profile not found")
}

func (r *profileRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	query := `UPDATE profiles SET avatar_url = $1, updated_at = now() WHERE user_id = $2`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, avatarURL, userID)
	if err != nil {
		return translate(err, "update avatar", "profile not found")
	}
	return expectRows(result, "update avatar", "profile not found")
}

func (r *profileRepository) SetFolderLimit(ctx context.Context, userID string, limit int) error {
	query := `UPDATE profiles SET max_bookmark_folders = $1, updated_at = now() WHERE user_id = $2`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, limit, userID)
	if err != nil {
		return translate(err, "set folder limit", "profile not found")
	}
	return expectRows(result, "set folder limit", "profile not found")
}

// AddCredits relies on the credits >= 0 check constraint to reject overdrafts.
func (r *profileRepository) AddCredits(ctx context.Context, userID string, delta int) (int, error) {
	var balance int

	query := `
		UPDATE profiles
		SET credits = credits + $1, updated_at = now()
		WHERE user_id = $2
		RETURNING credits
	`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &balance, query, delta, userID); err != nil {
		return 0, translate(err, "add credits", "profile not found")
	}
	return balance, nil
}
