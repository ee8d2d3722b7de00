package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/dkellogg/advancepay-service/internal/domain"
	"github.com/dkellogg/advancepay-service/internal/service"
	"github.com/dkellogg/advancepay-service/pkg/response"
)

type RolloverHandler struct {
	service   *service.RolloverService
	validator *validator.Validate
}

func NewRolloverHandler(service *service.RolloverService) *RolloverHandler {
	return &RolloverHandler{
		service:   service,
		validator: validator.New(),
	}
}

// List returns the rollover offers for a member account.
func (h *RolloverHandler) List(w http.ResponseWriter, r *http.Request) {
	memberAccountNumber := mux.Vars(r)["memberAccountNumber"]

	rollovers, err := h.service.ListRollovers(r.Context(), memberAccountNumber)
	if err != nil {
		response.InternalServerError(w, "Failed to read rollover records", err)
		return
	}

	response.Success(w, rollovers)
}

// Eligibility reports whether a loan is currently qualified for rollover.
func (h *RolloverHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	memberAccountNumber := vars["memberAccountNumber"]
	loanSuffix := vars["loanSuffix"]

	eligible := h.service.IsEligible(r.Context(), memberAccountNumber, loanSuffix)

	response.Success(w, domain.RolloverEligibilityResponse{
		MemberAccountNumber: memberAccountNumber,
		LoanSuffix:          loanSuffix,
		Eligible:            eligible,
	})
}

// Submit executes a rollover submission. Business failures are reported in
// the result payload with a 422 status; only malformed requests are rejected
// outright.
func (h *RolloverHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var request domain.SubmitRolloverRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid rollover request", err)
		return
	}

	result := h.service.Submit(r.Context(), &request)
	if !result.Success {
		response.JSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	response.Success(w, result)
}
