package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/carepulse/intake-platform/pkg/logging"
)

// Handler handles admin login and logout.
type Handler struct {
	gate   *Gate
	logger *logging.Logger
}

// NewHandler creates an admin handler.
func NewHandler(gate *Gate, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{gate: gate, logger: logger}
}

type loginRequest struct {
	Passkey        string `json:"passkey"`
	EncodedPasskey string `json:"encoded_passkey"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login handles POST /admin/login. The passkey can come plain or in the
// legacy base64 form.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	passkey := req.Passkey
	if passkey == "" && req.EncodedPasskey != "" {
		decoded, err := DecodeKey(req.EncodedPasskey)
		if err != nil {
			http.Error(w, "invalid passkey", http.StatusUnauthorized)
			return
		}
		passkey = decoded
	}

	token, err := h.gate.Verify(r.Context(), passkey)
	if err != nil {
		if errors.Is(err, ErrInvalidPasskey) {
			http.Error(w, "invalid passkey", http.StatusUnauthorized)
			return
		}
		h.logger.Error("admin login failed", "error", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{Token: token})
}

// Logout handles POST /admin/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := BearerToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	if err := h.gate.Revoke(r.Context(), token); err != nil {
		h.logger.Error("admin logout failed", "error", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BearerToken extracts the token from an Authorization: Bearer header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
