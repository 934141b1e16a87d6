package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rpattn/credittrack/internal/auth"
	"github.com/rpattn/credittrack/internal/domain"
)

// ProjectTypeField is the multipart field carrying the selected project type.
const ProjectTypeField = "id_type_projet"

const defaultMaxUpload = 32 << 20

// Handler exposes ingestion over HTTP.
type Handler struct {
	service   *Service
	maxUpload int64
}

// NewHTTPHandler wraps the service. maxUpload bounds the multipart body in
// bytes; zero or less uses 32 MiB.
func NewHTTPHandler(service *Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &Handler{service: service, maxUpload: maxUpload}
}

// Routes mounts POST / (upload) and GET /history.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.upload)
	r.Get("/history", h.history)
	return r
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	operator, ok := auth.OperatorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "operator identity required")
		return
	}

	if r.ContentLength > h.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid form data: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	req := Request{
		ProjectTypeID: strings.TrimSpace(r.FormValue(ProjectTypeField)),
		Operator:      operator,
		FileName:      header.Filename,
		Data:          file,
	}

	// A client disconnect must not abort a batch half way.
	summary, err := h.service.Import(context.WithoutCancel(r.Context()), req)
	if err != nil {
		status := domain.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("import failed", zap.Error(err), zap.String("file", header.Filename))
		}
		writeError(w, status, domain.PublicMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	entries, err := h.service.History(r.Context(), limit, offset)
	if err != nil {
		zap.L().Error("list import history", zap.Error(err))
		writeError(w, domain.HTTPStatus(err), domain.PublicMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
