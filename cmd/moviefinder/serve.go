package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"moviefinder/api"
	"moviefinder/config"
	"moviefinder/handlers"
	"moviefinder/internal/logging"
	"moviefinder/services/metadata"
	"moviefinder/utils"
)

const shutdownTimeout = 10 * time.Second

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browse page and JSON API over HTTP",
	Long: `Starts an HTTP server with:
  GET /                  server-rendered browse page (?query=)
  GET /api/movies        search results or the popular list (?query=)
  GET /api/trending      top trending movies
  GET /api/browse        settled browse state as JSON (?query=)
  GET /api/logs          tail of the log file (?lines=)
  GET /api/settings      loaded settings, token redacted
  GET /api/version       build version
  GET /health            liveness probe`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from settings, :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		settings.Server.Addr = addr
	}

	closer, err := logging.Setup(logging.Options{LogSettings: settings.Log, Console: true})
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := metadata.NewService(settings.TMDB, nil)

	var limiter *api.IPRateLimiter
	if settings.Server.APIRequestsPerMinute > 0 {
		limiter = api.NewPerMinuteLimiter(settings.Server.APIRequestsPerMinute)
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr:              settings.Server.Addr,
		Handler:           newServerHandler(svc, config.NewManager(configPath), settings, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[http] moviefinder %s listening on %s (tmdb language %s)", handlers.AppVersion(), srv.Addr, svc.Language())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[http] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServerHandler wires routes and middleware. limiter may be nil to
// disable API rate limiting.
func newServerHandler(svc *metadata.Service, mgr *config.Manager, settings config.Settings, limiter *api.IPRateLimiter) http.Handler {
	r := utils.NewRouter(utils.OriginPolicy{Extra: settings.Server.AllowedOrigins})

	browseHandler := handlers.NewBrowseHandler(svc)
	browseHandler.Debug = settings.Log.Verbose
	moviesHandler := handlers.NewMoviesHandler(svc)
	logsHandler := handlers.NewLogsHandler(settings.Log.File)
	versionHandler := handlers.NewVersionHandler()
	settingsHandler := handlers.NewSettingsHandler(mgr)

	r.HandleFunc("/", browseHandler.Page).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(handlers.NewStaticHandler()).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	if limiter != nil {
		apiRouter.Use(limiter.Middleware())
	}
	apiRouter.HandleFunc("/movies", moviesHandler.GetMovies).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/trending", moviesHandler.GetTrending).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/browse", browseHandler.State).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/logs", logsHandler.GetLogs).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/settings", settingsHandler.GetSettings).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/version", versionHandler.GetVersion).Methods(http.MethodGet, http.MethodOptions)

	return api.RequestIDMiddleware(api.AccessLogMiddleware(r))
}
