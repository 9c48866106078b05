package notification

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// NotificationHandler exposes a manual sweep trigger for operations and
// debugging; the scheduler drives the same code path once per day.
type NotificationHandler struct {
	notifier Notifier
}

func NewNotificationHandler(notifier Notifier) *NotificationHandler {
	return &NotificationHandler{notifier}
}

func (handler *NotificationHandler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	log.Debug("Manually triggered due-window sweep")
	if err := handler.notifier.SweepAllUsers(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
