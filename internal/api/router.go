package api

import (
	"database/sql"
	"net/http"

	"go.uber.org/zap"

	"cargotrack/internal/identity"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, svc identity.Service, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Identity: svc, Log: log}
	containersHandler := &ContainersHandler{DB: db, Log: log}
	reportsHandler := &ReportsHandler{DB: db, Log: log}

	authMW := AuthMiddleware(svc)

	// Login handshake (public).
	mux.HandleFunc("GET /api/oauth/{provider}/redirect_url", authHandler.RedirectURL)
	mux.HandleFunc("POST /api/sessions", authHandler.CreateSession)
	mux.HandleFunc("GET /api/logout", authHandler.Logout)

	// Session-scoped routes.
	mux.Handle("GET /api/users/me", authMW(http.HandlerFunc(authHandler.Me)))

	mux.Handle("GET /api/containers", authMW(http.HandlerFunc(containersHandler.List)))
	mux.Handle("POST /api/containers", authMW(http.HandlerFunc(containersHandler.Create)))
	mux.Handle("PUT /api/containers/{id}", authMW(http.HandlerFunc(containersHandler.Update)))
	mux.Handle("DELETE /api/containers/{id}", authMW(http.HandlerFunc(containersHandler.Delete)))
	mux.Handle("PUT /api/containers/{id}/photo", authMW(http.HandlerFunc(containersHandler.UploadPhoto)))
	mux.Handle("GET /api/containers/{id}/photo", authMW(http.HandlerFunc(containersHandler.GetPhoto)))

	mux.Handle("GET /api/reports/transit", authMW(http.HandlerFunc(reportsHandler.Transit)))

	return mux
}
