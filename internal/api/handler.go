package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"talentscan/internal/apperr"
	"talentscan/internal/chat"
	"talentscan/internal/export"
	"talentscan/internal/ingest"
	"talentscan/internal/storage"
)

const defaultMaxUploadBytes = 10 << 20

// Deps are the services the handlers delegate to.
type Deps struct {
	Ingest         *ingest.Service
	Store          storage.Store
	Chat           *chat.Service
	Export         *export.Service
	MaxUploadBytes int64
	Logger         *zap.Logger
}

type API struct {
	ingest    *ingest.Service
	store     storage.Store
	chat      *chat.Service
	export    *export.Service
	maxUpload int64
	log       *zap.Logger
}

func NewAPI(d Deps) *API {
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		ingest:    d.Ingest,
		store:     d.Store,
		chat:      d.Chat,
		export:    d.Export,
		maxUpload: maxUpload,
		log:       log,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string      `json:"error"`
	Kind  apperr.Kind `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error kind to a status code. Internal errors do not leak their message.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	var appErr *apperr.Error
	if errors.As(err, &appErr) && kind == apperr.KindProvider {
		msg = appErr.Message
	}
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	log := a.log.With(zap.String("path", r.URL.Path), zap.String("kind", string(kind)), zap.Error(err))
	if status >= 500 {
		log.Error("request failed")
	} else {
		log.Info("request rejected")
	}

	writeJSON(w, status, ErrorResponse{Error: msg, Kind: kind})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case apperr.KindExtraction:
		return http.StatusUnprocessableEntity
	case apperr.KindExtractionParse, apperr.KindProvider:
		return http.StatusBadGateway
	case apperr.KindStore:
		return http.StatusServiceUnavailable
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
