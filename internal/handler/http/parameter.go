package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/nominacloud/erp-backend-go/internal/domain/parameter"
	"github.com/nominacloud/erp-backend-go/internal/handler/http/response"
	parameterService "github.com/nominacloud/erp-backend-go/internal/service/parameter"
)

type ParameterHandler interface {
	Upsert(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type parameterHandlerImpl struct {
	parameterService *parameterService.ParameterService
}

func NewParameterHandler(svc *parameterService.ParameterService) ParameterHandler {
	return &parameterHandlerImpl{parameterService: svc}
}

func (h *parameterHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req parameter.UpsertParameterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.parameterService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Parameter saved", result)
}

func (h *parameterHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(w, "Invalid year", nil)
			return
		}
		year = parsed
	}

	result, err := h.parameterService.ListByYear(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
