package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/ancillary"
	"github.com/nominacloud/erp-backend-go/internal/handler/http/response"
	ancillaryService "github.com/nominacloud/erp-backend-go/internal/service/ancillary"
)

type AncillaryHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ancillaryHandlerImpl struct {
	ancillaryService *ancillaryService.AncillaryService
}

func NewAncillaryHandler(svc *ancillaryService.AncillaryService) AncillaryHandler {
	return &ancillaryHandlerImpl{ancillaryService: svc}
}

func (h *ancillaryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req ancillary.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ancillaryService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Ancillary payment created", result)
}

func (h *ancillaryHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payment ID is required", nil)
		return
	}

	result, err := h.ancillaryService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ancillaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	periodID := r.URL.Query().Get("period_id")
	if employeeID == "" || periodID == "" {
		response.BadRequest(w, "employee_id and period_id are required", nil)
		return
	}

	result, err := h.ancillaryService.ListByEmployeePeriod(r.Context(), employeeID, periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ancillaryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payment ID is required", nil)
		return
	}

	var req ancillary.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.ancillaryService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ancillary payment updated", result)
}

func (h *ancillaryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payment ID is required", nil)
		return
	}

	if err := h.ancillaryService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ancillary payment deleted", nil)
}
