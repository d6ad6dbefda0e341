package api

import (
	"chat-relay/auth"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const MessagesPath = "/api/v1/chat-app/messages"

type RouterConfig struct {
	CookieName string
	Middleware MiddlewareConfig
	// ObjectsDir, when set, is served under /objects for the disk object store.
	ObjectsDir string
}

// NewRouter mounts the message routes, the live connection upgrade,
// the Prometheus endpoint and the liveness probe.
func NewRouter(log *slog.Logger, cfg RouterConfig, authenticator auth.Authenticator,
	messages *MessageHandler, gateway http.Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg.Middleware))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, nil, "OK")
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Handle("/ws", gateway)
	if cfg.ObjectsDir != "" {
		r.Handle("/objects/*", http.StripPrefix("/objects/", http.FileServer(http.Dir(cfg.ObjectsDir))))
	}

	r.Route(MessagesPath, func(r chi.Router) {
		r.Use(RateLimit(cfg.Middleware))
		r.Use(auth.Middleware(authenticator, cfg.CookieName, ErrorWriter(log)))

		r.Get("/{chatId}", messages.List)
		r.Post("/{chatId}", messages.Send)
		r.Delete("/{chatId}/{messageId}", messages.Delete)
	})
	return r
}
