package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"comicshare/internal/apperr"
	"comicshare/internal/database"
	"comicshare/internal/models"
)

var errInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "invalid email or password")

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser hashes password and inserts the user. The on_user_created
// trigger creates the matching profile row in the same statement.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.UserID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)

	query := `
		INSERT INTO users (user_id, email, password_hash, refresh_token, refresh_token_expiry_time)
		VALUES (:user_id, :email, :password_hash, :refresh_token, :refresh_token_expiry_time)
		RETURNING created_at
	`

	rows, err := sqlx.NamedQueryContext(ctx, database.Conn(ctx, r.db), query, user)
	if err != nil {
		return translate(err, "create user", "user not found")
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&user.CreatedAt); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
	}
	return translate(rows.Err(), "create user", "user not found")
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &user, query, userID); err != nil {
		return nil, translate(err, "get user", "user not found")
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &user, query, email); err != nil {
		return nil, translate(err, "get user by email", "user not found")
	}

	return &user, nil
}

// VerifyPassword reports the same error for an unknown email and a wrong
// password.
func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	return user, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE user_id = $1`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, userID)
	if err != nil {
		return translate(err, "delete user", "user not found")
	}

	return expectRows(result, "delete user", "user not found")
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3
	`

	result, err := database.Conn(ctx, r.db).ExecContext(ctx, query, refreshToken, expiryTime, userID)
	if err != nil {
		return translate(err, "update refresh token", "user not found")
	}

	return expectRows(result, "update refresh token", "user not found")
}

func (r *userRepository) RevokeSessions(ctx context.Context, userID string) error {
	query := `
		UPDATE users
		SET refresh_token = NULL, refresh_token_expiry_time = NULL, token_version = token_version + 1
		WHERE user_id = $1
	`

	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

func (r *userRepository) GetSessionState(ctx context.Context, userID string) (*models.SessionState, error) {
	var state models.SessionState

	query := `
		SELECT u.user_id, u.email, p.role, u.token_version
		FROM users u JOIN profiles p ON p.user_id = u.user_id
		WHERE u.user_id = $1
	`

	if err := database.Conn(ctx, r.db).GetContext(ctx, &state, query, userID); err != nil {
		return nil, translate(err, "get session state", "user not found")
	}
	return &state, nil
}

func (r *userRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	var user models.User

	query := `
		SELECT * FROM users
		WHERE refresh_token = $1
		AND refresh_token_expiry_time > CURRENT_TIMESTAMP
	`

	err := database.Conn(ctx, r.db).GetContext(ctx, &user, query, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrUnauthorized, "invalid or expired refresh token")
		}
		return nil, fmt.Errorf("get user by refresh token: %w", err)
	}

	return &user, nil
}
