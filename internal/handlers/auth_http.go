package handlers

import (
	"net/http"
	"time"

	"github.com/ThierryWelling/simplo-ti/internal/middleware"
	"github.com/ThierryWelling/simplo-ti/internal/service"
	"github.com/ThierryWelling/simplo-ti/internal/utils"
)

type AuthHTTP struct {
	svc   *service.AuthService
	users *service.UserService
}

func NewAuthHTTP(svc *service.AuthService, users *service.UserService) *AuthHTTP {
	return &AuthHTTP{svc: svc, users: users}
}

func (h *AuthHTTP) Register() http.HandlerFunc {
	type inDTO struct {
		Email      string `json:"email" validate:"required,email"`
		Name       string `json:"name" validate:"required,min=2,max=100"`
		Password   string `json:"password" validate:"required,min=6,max=72"`
		Department string `json:"department" validate:"max=100"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		p, err := h.svc.Register(r.Context(), in.Email, in.Name, in.Password, in.Department)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, p)
	}
}

func (h *AuthHTTP) Login() http.HandlerFunc {
	type inDTO struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}

		token, p, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			// Set Secure behind HTTPS in prod.
			Secure:  false,
			Expires: time.Now().Add(24 * time.Hour),
		})
		utils.JSON(w, http.StatusOK, p)
	}
}

func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := utils.GetString(r.Context(), middleware.CtxUserID)
		if !ok || uid == "" {
			utils.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		p, err := h.users.Get(r.Context(), uid)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

func (h *AuthHTTP) Confirm() http.HandlerFunc {
	type inDTO struct {
		Token string `json:"token" validate:"required"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		if err := h.svc.Confirm(r.Context(), in.Token); err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
	}
}

func (h *AuthHTTP) ResendConfirmation() http.HandlerFunc {
	type inDTO struct {
		Email string `json:"email" validate:"required,email"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		if err := h.svc.ResendConfirmation(r.Context(), in.Email); err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "sent"})
	}
}

// Setup bootstraps the very first admin account. Locked once any profile
// exists.
func (h *AuthHTTP) Setup() http.HandlerFunc {
	type inDTO struct {
		Email      string `json:"email" validate:"required,email"`
		Name       string `json:"name" validate:"required,min=2,max=100"`
		Password   string `json:"password" validate:"required,min=6,max=72"`
		Department string `json:"department" validate:"max=100"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		p, err := h.svc.Setup(r.Context(), in.Email, in.Name, in.Password, in.Department)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, p)
	}
}
