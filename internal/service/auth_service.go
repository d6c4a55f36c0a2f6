package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"comicshare/internal/apperr"
	"comicshare/internal/auth"
	"comicshare/internal/config"
	"comicshare/internal/database"
	"comicshare/internal/models"
	"comicshare/internal/repository"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Tokens is the pair issued on login, registration and refresh.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, *Tokens, error)
	Login(ctx context.Context, email, password string) (*models.User, *Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, *Tokens, error)
	Logout(ctx context.Context, session *auth.Session) error
	ValidateToken(tokenString string) (*jwt.Token, error)
	SessionFromToken(ctx context.Context, tokenString string) (*auth.Session, error)
}

var errSessionRevoked = apperr.New(apperr.ErrUnauthorized, "session has been revoked")

type authService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tx          database.Transactor
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, tx database.Transactor, cfg *config.Config) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tx:          tx,
		cfg:         cfg,
	}
}

// Register creates the user and its profile in one transaction and signs the
// new user in.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, *Tokens, error) {
	user := &models.User{Email: req.Email}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
			return err
		}
		return s.profileRepo.SetFolderLimit(ctx, user.UserID, s.cfg.DefaultFolderLimit)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("register user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user, auth.RoleUser)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *Tokens, error) {
	user, err := s.userRepo.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, nil, fmt.Errorf("authenticate: %w", err)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, user.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user, profile.Role)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// RefreshTokens rotates the refresh token: the presented one stops working.
func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, *Tokens, error) {
	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("refresh tokens: %w", err)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, user.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("load profile: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user, profile.Role)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Logout revokes the refresh token and every access token issued to the user.
func (s *authService) Logout(ctx context.Context, session *auth.Session) error {
	if err := requireSession(session); err != nil {
		return err
	}
	return s.userRepo.RevokeSessions(ctx, session.UserID)
}

func (s *authService) issueTokens(ctx context.Context, user *models.User, role string) (*Tokens, error) {
	accessToken, err := s.generateAccessToken(user, role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, refreshToken, refreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authService) generateAccessToken(user *models.User, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.UserID,
		"email":  user.Email,
		"role":   role,
		"ver":    user.TokenVersion,
		"exp":    now.Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) generateRefreshToken() (string, time.Time) {
	return uuid.New().String(), time.Now().Add(s.cfg.RefreshTokenDuration)
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUnauthorized, "invalid or expired token", err)
	}

	if !token.Valid {
		return nil, apperr.New(apperr.ErrUnauthorized, "invalid or expired token")
	}

	return token, nil
}

// SessionFromToken verifies tokenString and checks it against the user's
// current state: a deleted account or a token issued before the last logout
// is rejected, and the role is the one stored now rather than at sign-in.
func (s *authService) SessionFromToken(ctx context.Context, tokenString string) (*auth.Session, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.New(apperr.ErrUnauthorized, "malformed token claims")
	}

	userID, _ := claims["userId"].(string)
	version, hasVersion := claims["ver"].(float64)
	if userID == "" || !hasVersion {
		return nil, apperr.New(apperr.ErrUnauthorized, "malformed token claims")
	}

	state, err := s.userRepo.GetSessionState(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errSessionRevoked
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if state.TokenVersion != int(version) {
		return nil, errSessionRevoked
	}

	role := state.Role
	if role == "" {
		role = auth.RoleUser
	}
	return &auth.Session{UserID: state.UserID, Email: state.Email, Role: role}, nil
}
