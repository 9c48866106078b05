package app

import (
	"net/http"

	"github.com/budgetbot/budgetbot/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Entries
	r.HandleFunc("/api/user/{userId}/entry", deps.EntryHandler.ListEntries).Methods("GET")
	r.HandleFunc("/api/user/{userId}/entry", deps.EntryHandler.AddEntry).Methods("POST")
	r.HandleFunc("/api/user/{userId}/entry/{number}", deps.EntryHandler.DeleteEntry).Methods("DELETE")

	// Notifications
	r.HandleFunc("/api/notifications/sweep", deps.NotificationHandler.TriggerSweep).Methods("POST")
}
