package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerInternalSyncRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync/run", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSync)))
	mux.Handle("POST /v1/internal/sync/range", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncRange)))
	mux.Handle("POST /v1/internal/sync/deleted", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncDeleted)))
	mux.Handle("GET /v1/internal/sync/summary", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSyncSummary)))
	mux.Handle("POST /v1/internal/matches/refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RefreshMatches)))
	mux.Handle("POST /v1/internal/matches/{externalID}/refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RefreshMatch)))
}

func registerInternalAdminRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("PUT /v1/internal/teams/{teamID}/category", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SetTeamCategory)))
	mux.Handle("PUT /v1/internal/features/{feature}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SetFeature)))
	mux.Handle("GET /v1/internal/satellites/{kind}/{teamID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.GetSatellite)))
	mux.Handle("GET /v1/internal/error-logs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListErrorLogs)))
	mux.Handle("GET /v1/internal/error-logs/export", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ExportErrorLogs)))
	mux.Handle("DELETE /v1/internal/error-logs", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.DeleteErrorLogs)))
	mux.Handle("DELETE /v1/internal/error-logs/{logID}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.DeleteErrorLog)))
	mux.Handle("DELETE /v1/internal/cache", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ClearAPICache)))
}
