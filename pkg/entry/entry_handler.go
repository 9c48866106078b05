package entry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type EntryDTO struct {
	UID         string `json:"uid,omitempty"`
	Kind        string `json:"kind"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Recurring   bool   `json:"recurring"`
	Description string `json:"description,omitempty"`
}

type EntryHandler struct {
	entryService EntryService
}

func NewEntryHandler(entryService EntryService) *EntryHandler {
	return &EntryHandler{entryService}
}

func (handler *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := handler.entryService.List(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryToDTO(e))
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *EntryHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new entry")
	w.Header().Set("Content-Type", "application/json")
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	e, err := DTOToEntry(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := handler.entryService.Add(r.Context(), userID, e)
	if err != nil {
		if errors.Is(err, ErrInvalidEntry) || errors.Is(err, ErrInvalidDate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(EntryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil {
		http.Error(w, "Invalid entry number", http.StatusBadRequest)
		return
	}

	deleted, err := handler.entryService.Delete(r.Context(), userID, number)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Entry not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
}

func EntryToDTO(e Entry) EntryDTO {
	return EntryDTO{
		UID:         e.UID,
		Kind:        string(e.Kind),
		Amount:      e.Amount.String(),
		Date:        e.Date.Format(dateLayout),
		Recurring:   e.Recurring,
		Description: e.Description,
	}
}

func DTOToEntry(dto EntryDTO) (Entry, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Entry{}, ErrInvalidEntry
	}
	date, err := time.ParseInLocation(dateLayout, dto.Date, time.UTC)
	if err != nil {
		return Entry{}, ErrInvalidDate
	}
	return Entry{
		Kind:        Kind(dto.Kind),
		Amount:      amount,
		Date:        date,
		Recurring:   dto.Recurring,
		Description: dto.Description,
	}, nil
}
