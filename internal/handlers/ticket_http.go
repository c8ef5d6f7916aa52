package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ThierryWelling/simplo-ti/internal/middleware"
	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/repository"
	"github.com/ThierryWelling/simplo-ti/internal/service"
	"github.com/ThierryWelling/simplo-ti/internal/utils"
)

type TicketHTTP struct {
	svc *service.TicketService
}

func NewTicketHTTP(svc *service.TicketService) *TicketHTTP {
	return &TicketHTTP{svc: svc}
}

// GET /api/tickets?q=&status=&created_by=&assigned_to=&limit=&offset=
// assigned_to is a comma-separated list of user ids; the token "unassigned"
// folds the NULL case in, e.g. assigned_to=<uid>,unassigned for the triage
// queue view.
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		f := repository.TicketFilter{
			Q:         strings.TrimSpace(qv.Get("q")),
			Status:    strings.TrimSpace(qv.Get("status")),
			CreatedBy: strings.TrimSpace(qv.Get("created_by")),
			Limit:     utils.QueryInt(qv, "limit", 50),
			Offset:    utils.QueryInt(qv, "offset", 0),
		}
		for _, tok := range utils.QueryCSV(qv, "assigned_to") {
			if tok == "unassigned" {
				f.Unassigned = true
			} else {
				f.AssignedTo = append(f.AssignedTo, tok)
			}
		}

		// Colaboradores only ever see their own tickets, whatever they ask for.
		role, _ := utils.GetString(r.Context(), middleware.CtxRole)
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if role == models.RoleColaborador {
			f.CreatedBy = uid
		}

		items, err := h.svc.List(r.Context(), f)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		t, err := h.svc.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		role, _ := utils.GetString(r.Context(), middleware.CtxRole)
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if role == models.RoleColaborador && t.CreatedBy != uid {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

func (h *TicketHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Title       string `json:"title" validate:"required,min=3,max=200"`
		Description string `json:"description" validate:"max=5000"`
		Category    string `json:"category" validate:"max=100"`
		Priority    string `json:"priority" validate:"omitempty,oneof=baixa media alta urgente"`
		EquipmentID string `json:"equipmentId" validate:"omitempty,max=64"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)

		t, err := h.svc.Create(r.Context(), service.CreateTicketInput{
			Title:       in.Title,
			Description: in.Description,
			Category:    in.Category,
			Priority:    in.Priority,
			EquipmentID: in.EquipmentID,
		}, uid)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// POST /api/tickets/{id}/assign: the caller claims the ticket.
func (h *TicketHTTP) Assign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		t, err := h.svc.Assign(r.Context(), chi.URLParam(r, "id"), uid)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

func (h *TicketHTTP) Close() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		t, err := h.svc.Close(r.Context(), chi.URLParam(r, "id"), uid)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

func (h *TicketHTTP) Rate() http.HandlerFunc {
	type inDTO struct {
		Rating int `json:"rating" validate:"required,gte=1,lte=5"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		t, err := h.svc.Rate(r.Context(), chi.URLParam(r, "id"), in.Rating, uid)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

func (h *TicketHTTP) AddUpdate() http.HandlerFunc {
	type inDTO struct {
		Message string `json:"message" validate:"required,min=1,max=2000"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		u, err := h.svc.AddUpdate(r.Context(), chi.URLParam(r, "id"), in.Message, uid)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, u)
	}
}

func (h *TicketHTTP) ListUpdates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updates, err := h.svc.Updates(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": updates})
	}
}

// GET /api/tickets/stats returns the dashboard counters.
func (h *TicketHTTP) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.svc.Stats(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}
