package api

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cargotrack/internal/identity"
)

// AuthHandler handles the login handshake with the identity service.
type AuthHandler struct {
	Identity identity.Service
	Log      *zap.Logger
}

type createSessionRequest struct {
	Code string `json:"code"`
}

// RedirectURL handles GET /api/oauth/{provider}/redirect_url.
func (h *AuthHandler) RedirectURL(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	redirectURL, err := h.Identity.RedirectURL(r.Context(), provider)
	if err != nil {
		h.Log.Error("getting redirect url", zap.String("provider", provider), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to get redirect URL")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"redirectUrl": redirectURL})
}

// CreateSession handles POST /api/sessions: exchanges the authorization code
// for a session token and sets the session cookie.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Code == "" {
		jsonError(w, http.StatusBadRequest, "no authorization code provided")
		return
	}

	token, err := h.Identity.ExchangeCode(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCode) {
			jsonError(w, http.StatusUnauthorized, "invalid authorization code")
			return
		}
		h.Log.Error("exchanging authorization code", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	setSessionCookie(w, token, int(identity.SessionExpiry/time.Second))
	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// Me handles GET /api/users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, GetUser(r.Context()))
}

// Logout handles GET /api/logout: revokes the session (best-effort) and
// clears the cookie. Always succeeds from the client's point of view.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.Identity.Revoke(r.Context(), cookie.Value); err != nil {
			h.Log.Warn("revoking session", zap.Error(err))
		}
	}

	setSessionCookie(w, "", -1)
	jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}
