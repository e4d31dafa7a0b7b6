package assets

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/assetd/internal/shared"
)

// Response bodies for the error classes.
const (
	BodyForbidden   = "403: Forbidden"
	BodyNotFound    = "404: File Not Found"
	BodyServerError = "500: Internal Server Error"
)

// Response is the single terminal outcome of a request.
type Response struct {
	Status      int
	ContentType string // empty leaves the header unset
	Body        []byte
	Target      Target
	Err         error
}

// Handler serves files below the resolver's root. It registers as the catch-all route.
type Handler struct {
	resolver *Resolver
	reader   Reader
	logger   *log.Logger
}

// NewHandler wires a resolver and reader into an [http.Handler].
//
// A nil reader uses [FileReader]; a nil logger discards diagnostics.
func NewHandler(resolver *Resolver, reader Reader, logger *log.Logger) *Handler {
	if reader == nil {
		reader = FileReader{}
	}
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	return &Handler{resolver: resolver, reader: reader, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *Handler) Routes() []string {
	return []string{"/"}
}

// Deliver runs resolve, read and error mapping for urlPath without writing anything.
func (h *Handler) Deliver(ctx context.Context, urlPath string) Response {
	target, err := h.resolver.Resolve(urlPath)
	if err != nil {
		return Response{Status: http.StatusForbidden, Body: []byte(BodyForbidden), Target: target, Err: err}
	}

	data, err := h.reader.ReadAsset(ctx, target.Path)
	switch {
	case err == nil:
		return Response{Status: http.StatusOK, ContentType: target.ContentType, Body: data, Target: target}
	case errors.Is(err, shared.ErrAssetNotFound):
		return Response{Status: http.StatusNotFound, ContentType: "text/plain", Body: []byte(BodyNotFound), Target: target, Err: err}
	default:
		return Response{Status: http.StatusInternalServerError, ContentType: "text/plain", Body: []byte(BodyServerError), Target: target, Err: err}
	}
}

// ServeHTTP resolves r.URL.Path and writes exactly one response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h.Deliver(r.Context(), r.URL.Path)

	switch resp.Status {
	case http.StatusForbidden:
		h.logger.Warn("traversal rejected", "path", r.URL.Path, "candidate", resp.Target.Path)
	case http.StatusNotFound:
		h.logger.Debug("asset not found", "path", resp.Target.Path)
	case http.StatusInternalServerError:
		h.logger.Error("asset read failed", "path", resp.Target.Path, "error", resp.Err)
	}

	Write(w, resp.Status, resp.ContentType, resp.Body)
}

// Write sends status, content type and body in one go.
func Write(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	w.Write(body)
}
