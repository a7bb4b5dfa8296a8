package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nominacloud/erp-backend-go/internal/domain/overtime"
	"github.com/nominacloud/erp-backend-go/internal/handler/http/response"
	overtimeService "github.com/nominacloud/erp-backend-go/internal/service/overtime"
)

type OvertimeHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService *overtimeService.OvertimeService
}

func NewOvertimeHandler(svc *overtimeService.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{overtimeService: svc}
}

func (h *overtimeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req overtime.CreateOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.overtimeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime entry created", result)
}

func (h *overtimeHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Overtime entry ID is required", nil)
		return
	}

	result, err := h.overtimeService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	periodID := r.URL.Query().Get("period_id")
	if employeeID == "" || periodID == "" {
		response.BadRequest(w, "employee_id and period_id are required", nil)
		return
	}

	result, err := h.overtimeService.ListByEmployeePeriod(r.Context(), employeeID, periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *overtimeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Overtime entry ID is required", nil)
		return
	}

	var req overtime.UpdateOvertimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.overtimeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime entry updated", result)
}

func (h *overtimeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Overtime entry ID is required", nil)
		return
	}

	if err := h.overtimeService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime entry deleted", nil)
}
