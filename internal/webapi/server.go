// Package webapi serves the browser front-end and its JSON API.
//
// Endpoints:
//
//	GET    /api/health                              health and configuration check
//	GET    /api/catalog                             style presets and quick edits
//	POST   /api/sessions                            start a session
//	GET    /api/sessions/{id}                       session state
//	POST   /api/sessions/{id}/images/{slot}         multipart upload (field "file")
//	DELETE /api/sessions/{id}/images/{slot}         clear a slot
//	POST   /api/sessions/{id}/images/{slot}/pick    native file dialog (local mode)
//	PUT    /api/sessions/{id}/prompt                replace prompt text
//	POST   /api/sessions/{id}/prompt/preset         apply a style preset
//	POST   /api/sessions/{id}/prompt/quick-edit     apply a quick edit
//	POST   /api/sessions/{id}/prompt/enhance        rewrite the prompt with the text model
//	POST   /api/sessions/{id}/generate              run a transform
//	GET    /api/sessions/{id}/result                result panel HTML fragment
//
// Everything else is served from the embedded front-end.
package webapi

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/fpang/archigen-transform/internal/filehandler"
	"github.com/fpang/archigen-transform/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
)

//go:embed static
var staticFS embed.FS

// uploadOverhead covers multipart framing on top of the image size cap.
const uploadOverhead = 1 << 20

// Options configures a Server.
type Options struct {
	Store *session.Store
	// Configured is false when no Gemini API key is available. The front-end
	// shows a blocking banner in that case.
	Configured     bool
	TextModel      string
	ImageModel     string
	MaxUploadBytes int64
	// RateLimitPerMin caps API requests per client IP; 0 disables it.
	RateLimitPerMin int
	// NativePicker enables the OS file dialog endpoint. Only meaningful when
	// the server runs on the user's own machine.
	NativePicker bool
	// Picker overrides the native dialog, mainly for tests.
	Picker func(title string) (string, error)
}

// Server holds the HTTP handlers.
type Server struct {
	opts Options
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Picker == nil {
		opts.Picker = filehandler.PickImage
	}
	return &Server{opts: opts}
}

// Handler builds the routed, compressed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(withLogging, withCORS, withMetrics)

	r.Route("/api", func(r chi.Router) {
		if s.opts.RateLimitPerMin > 0 {
			r.Use(newRateLimiter(s.opts.RateLimitPerMin).middleware)
		}
		r.Get("/health", s.handleHealth)
		r.Get("/catalog", s.handleCatalog)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Post("/images/{slot}", s.handleUpload)
			r.Delete("/images/{slot}", s.handleClearImage)
			r.Post("/images/{slot}/pick", s.handlePick)
			r.Put("/prompt", s.handleSetPrompt)
			r.Post("/prompt/preset", s.handlePreset)
			r.Post("/prompt/quick-edit", s.handleQuickEdit)
			r.Post("/prompt/enhance", s.handleEnhance)
			r.Post("/generate", s.handleGenerate)
			r.Get("/result", s.handleResult)
		})
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			httpError(w, http.StatusNotFound, "not found")
		})
	})

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/*", withSecurityHeaders(http.FileServer(http.FS(static))))

	return gzhttp.GzipHandler(r)
}
