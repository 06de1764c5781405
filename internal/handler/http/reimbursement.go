package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sentra-hr/attendance-backend-go/internal/domain/reimbursement"
	"github.com/sentra-hr/attendance-backend-go/internal/handler/http/response"
)

type ReimbursementHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type reimbursementHandlerImpl struct {
	reimbursementService reimbursement.Service
}

func NewReimbursementHandler(reimbursementService reimbursement.Service) ReimbursementHandler {
	return &reimbursementHandlerImpl{
		reimbursementService: reimbursementService,
	}
}

// Create implements ReimbursementHandler.
func (h *reimbursementHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req reimbursement.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.reimbursementService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Reimbursement request submitted", result)
}

// List implements ReimbursementHandler.
func (h *reimbursementHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := reimbursement.Filter{}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if kind := r.URL.Query().Get("type"); kind != "" {
		k := reimbursement.Kind(kind)
		filter.Kind = &k
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := reimbursement.Status(status)
		filter.Status = &s
	}
	filter.Page, filter.Limit = parsePagination(r)

	results, err := h.reimbursementService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// Get implements ReimbursementHandler.
func (h *reimbursementHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.reimbursementService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements ReimbursementHandler.
func (h *reimbursementHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.reimbursementService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reimbursement request approved", result)
}

// Reject implements ReimbursementHandler.
func (h *reimbursementHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.reimbursementService.Reject(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reimbursement request rejected", result)
}
