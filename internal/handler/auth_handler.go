package handlers

import (
	"net/http"

	"comicshare/internal/auth"
	"comicshare/internal/models"
	"comicshare/internal/service"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type UserResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

func authResponse(user *models.User, tokens *service.Tokens) AuthResponse {
	return AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         UserResponse{UserID: user.UserID, Email: user.Email},
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, tokens, err := h.AuthService.Register(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeSuccess(w, authResponse(user, tokens), http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, tokens, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeSuccess(w, authResponse(user, tokens), http.StatusOK)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, tokens, err := h.AuthService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeSuccess(w, authResponse(user, tokens), http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.AuthService.Logout(r.Context(), auth.FromContext(r.Context())); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
