package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	gate, err := NewGate("clinic-passkey", "test-jwt-secret", time.Hour, NewMemorySessionStore(), nil)
	require.NoError(t, err)
	return NewHandler(gate, nil)
}

func postLogin(h *Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader([]byte(body)))
	h.Login(rec, req)
	return rec
}

func TestHandler_Login(t *testing.T) {
	h := newTestHandler(t)

	rec := postLogin(h, `{"passkey":"clinic-passkey"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestHandler_LoginEncodedPasskey(t *testing.T) {
	h := newTestHandler(t)

	body, _ := json.Marshal(map[string]string{"encoded_passkey": EncodeKey("clinic-passkey")})
	rec := postLogin(h, string(body))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_LoginWrongPasskey(t *testing.T) {
	h := newTestHandler(t)

	rec := postLogin(h, `{"passkey":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_LoginMalformedEncodedPasskey(t *testing.T) {
	h := newTestHandler(t)

	rec := postLogin(h, `{"encoded_passkey":"%%%"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Logout(t *testing.T) {
	h := newTestHandler(t)

	rec := postLogin(h, `{"passkey":"clinic-passkey"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	logoutRec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	h.Logout(logoutRec, req)
	assert.Equal(t, http.StatusNoContent, logoutRec.Code)

	// The revoked token no longer passes the gate.
	_, err := h.gate.Check(req.Context(), resp.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestHandler_LogoutMissingToken(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, BearerToken(req))

	req.Header.Set("Authorization", "Bearer tok123")
	assert.Equal(t, "tok123", BearerToken(req))
}
