package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ThierryWelling/simplo-ti/internal/middleware"
	"github.com/ThierryWelling/simplo-ti/internal/service"
	"github.com/ThierryWelling/simplo-ti/internal/utils"
)

type UserHTTP struct {
	svc *service.UserService
}

func NewUserHTTP(svc *service.UserService) *UserHTTP {
	return &UserHTTP{svc: svc}
}

// GET /api/users?role=
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.svc.List(r.Context(), r.URL.Query().Get("role"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": users, "total": len(users)})
	}
}

func (h *UserHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

func (h *UserHTTP) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.svc.Stats(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}

// GET /api/users/top-auxiliares?limit= returns the points leaderboard.
func (h *UserHTTP) TopAuxiliares() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := utils.QueryInt(r.URL.Query(), "limit", 5)
		users, err := h.svc.TopAuxiliares(r.Context(), limit)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": users})
	}
}

func (h *UserHTTP) TicketStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.svc.TicketStats(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}

func (h *UserHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Email      string `json:"email" validate:"required,email"`
		Name       string `json:"name" validate:"required,min=2,max=100"`
		Password   string `json:"password" validate:"required,min=6,max=72"`
		Role       string `json:"role" validate:"required,oneof=colaborador auxiliar admin"`
		Department string `json:"department" validate:"max=100"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		callerID, _ := utils.GetString(r.Context(), middleware.CtxUserID)

		p, err := h.svc.Create(r.Context(), callerID, service.CreateUserInput{
			Email:      in.Email,
			Name:       in.Name,
			Password:   in.Password,
			Role:       in.Role,
			Department: in.Department,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, p)
	}
}

// PATCH /api/users/{id}
func (h *UserHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name       *string `json:"name" validate:"omitempty,min=2,max=100"`
		Email      *string `json:"email" validate:"omitempty,email"`
		Department *string `json:"department" validate:"omitempty,max=100"`
		Role       *string `json:"role" validate:"omitempty,oneof=colaborador auxiliar admin"`
		Points     *int    `json:"points" validate:"omitempty,gte=0"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		callerID, _ := utils.GetString(r.Context(), middleware.CtxUserID)

		p, err := h.svc.Update(r.Context(), callerID, chi.URLParam(r, "id"), service.UpdateUserInput{
			Name:       in.Name,
			Email:      in.Email,
			Department: in.Department,
			Role:       in.Role,
			Points:     in.Points,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

// PATCH /api/users/{id}/role
func (h *UserHTTP) UpdateRole() http.HandlerFunc {
	type inDTO struct {
		Role string `json:"role" validate:"required,oneof=colaborador auxiliar admin"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		callerID, _ := utils.GetString(r.Context(), middleware.CtxUserID)

		p, err := h.svc.UpdateRole(r.Context(), callerID, chi.URLParam(r, "id"), in.Role)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

func (h *UserHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if err := h.svc.Delete(r.Context(), callerID, chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
