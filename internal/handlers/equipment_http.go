package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ThierryWelling/simplo-ti/internal/middleware"
	"github.com/ThierryWelling/simplo-ti/internal/service"
	"github.com/ThierryWelling/simplo-ti/internal/utils"
)

const maxImageBytes = 10 << 20

type EquipmentHTTP struct {
	svc *service.EquipmentService
}

func NewEquipmentHTTP(svc *service.EquipmentService) *EquipmentHTTP {
	return &EquipmentHTTP{svc: svc}
}

// GET /api/equipment?q=
func (h *EquipmentHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

func (h *EquipmentHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, e)
	}
}

func (h *EquipmentHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		Name            string `json:"name" validate:"required,min=2,max=200"`
		Description     string `json:"description" validate:"max=2000"`
		CompanyName     string `json:"companyName" validate:"required,max=200"`
		PatrimonyNumber string `json:"patrimonyNumber" validate:"required,max=100"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		uid, _ := utils.GetString(r.Context(), middleware.CtxUserID)

		e, err := h.svc.Create(r.Context(), service.EquipmentInput{
			Name:            in.Name,
			Description:     in.Description,
			CompanyName:     in.CompanyName,
			PatrimonyNumber: in.PatrimonyNumber,
		}, uid)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, e)
	}
}

func (h *EquipmentHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Name            string `json:"name" validate:"omitempty,min=2,max=200"`
		Description     string `json:"description" validate:"max=2000"`
		CompanyName     string `json:"companyName" validate:"max=200"`
		PatrimonyNumber string `json:"patrimonyNumber" validate:"max=100"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if !decodeValid(w, r, &in) {
			return
		}
		e, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), service.EquipmentInput{
			Name:            in.Name,
			Description:     in.Description,
			CompanyName:     in.CompanyName,
			PatrimonyNumber: in.PatrimonyNumber,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, e)
	}
}

func (h *EquipmentHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/equipment/{id}/image expects the multipart field "image".
func (h *EquipmentHTTP) UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		e, err := h.svc.UploadImage(r.Context(), chi.URLParam(r, "id"),
			header.Filename, file, header.Size, header.Header.Get("Content-Type"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, e)
	}
}
