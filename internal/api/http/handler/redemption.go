package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dtroode/gophcheck-server/internal/logger"
	"github.com/dtroode/gophcheck-server/internal/model"
)

// RedemptionService consumes access codes.
type RedemptionService interface {
	Redeem(ctx context.Context, raw, sessionID, ip string) (model.RedeemResult, error)
}

// Redemption handles access code verification.
type Redemption struct {
	redemptionService RedemptionService
	contextManager    model.ContextManager
	logger            *logger.Logger
}

// NewRedemption creates a new Redemption handler.
func NewRedemption(redemptionService RedemptionService, contextManager model.ContextManager, logger *logger.Logger) *Redemption {
	return &Redemption{redemptionService: redemptionService, contextManager: contextManager, logger: logger}
}

type verifyRequest struct {
	Code string `json:"code" validate:"max=64"`
}

type verifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// VerifyCode redeems the submitted code for the session set by the gatekeeper.
func (h *Redemption) VerifyCode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, verifyResponse{Error: msgBadRequest})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, verifyResponse{Error: msgInvalidFormat})
		return
	}

	sessionID, _ := h.contextManager.GetSessionIDFromContext(r.Context())

	result, err := h.redemptionService.Redeem(r.Context(), req.Code, sessionID, ClientIP(r))
	if err != nil {
		status, msg := mapError(err)
		writeJSON(w, status, verifyResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Valid: result.Valid})
}
