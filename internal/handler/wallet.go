package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dkellogg/advancepay-service/internal/wallet"
	"github.com/dkellogg/advancepay-service/pkg/response"
)

type WalletHandler struct {
	client *wallet.Client
}

func NewWalletHandler(client *wallet.Client) *WalletHandler {
	return &WalletHandler{client: client}
}

// SSORequest brokers a digital-wallet SSO payload from the card management
// vendor. When the wallet is disabled the member just sees "no access".
func (h *WalletHandler) SSORequest(w http.ResponseWriter, r *http.Request) {
	if !h.client.Enabled() {
		response.Success(w, "no access")
		return
	}

	vars := mux.Vars(r)

	accountNumber, err := strconv.ParseInt(vars["accountNumber"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid account number", err)
		return
	}

	sso, err := h.client.GetSSOPayload(r.Context(), accountNumber, vars["accountIdentifier"], vars["deviceIdentifier"])
	if err != nil {
		response.InternalServerError(w, "Digital wallet SSO request failed", err)
		return
	}

	response.Success(w, sso)
}
