package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/dkellogg/advancepay-service/internal/domain"
	"github.com/dkellogg/advancepay-service/internal/service"
	"github.com/dkellogg/advancepay-service/pkg/response"
)

type InquiryHandler struct {
	service   *service.InquiryService
	validator *validator.Validate
}

func NewInquiryHandler(service *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Decision submits a new-loan inquiry and blocks until the decision engine
// resolves it or the poll budget runs out. The response always carries a
// decision message, failure included.
func (h *InquiryHandler) Decision(w http.ResponseWriter, r *http.Request) {
	var request domain.LoanInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid loan inquiry", err)
		return
	}

	decision := h.service.RequestDecision(r.Context(), &request)

	response.Success(w, decision)
}

// Conditions returns the maximum advance pay loan amount for an account.
func (h *InquiryHandler) Conditions(w http.ResponseWriter, r *http.Request) {
	memberAccountNumber := mux.Vars(r)["memberAccountNumber"]

	conditions := h.service.GetLoanConditions(r.Context(), memberAccountNumber)

	response.Success(w, conditions)
}

// Eligibility returns the new-loan eligibility payload for a member.
func (h *InquiryHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	memberUUID, err := strconv.ParseInt(mux.Vars(r)["memberUUID"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid member identifier", err)
		return
	}

	eligibility, svcErr := h.service.GetAccountEligibility(r.Context(), memberUUID)
	if svcErr != nil {
		response.InternalServerError(w, "Failed to read loan eligibility", svcErr)
		return
	}

	response.Success(w, eligibility)
}
