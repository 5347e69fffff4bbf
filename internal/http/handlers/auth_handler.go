package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"touservice/internal/auth"
)

// AuthHandler exchanges price-setter API keys for JWTs.
type AuthHandler struct {
	verifier *auth.KeyVerifier
	tokens   *auth.TokenService
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewAuthHandler builds handler.
func NewAuthHandler(verifier *auth.KeyVerifier, tokens *auth.TokenService, tokenTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "api_key is required")
		return
	}

	if err := h.verifier.Verify(req.APIKey); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid api key")
		return
	}

	token, err := h.tokens.GenerateToken(auth.RolePriceAdmin)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(h.tokenTTL.Seconds()),
	})
}
