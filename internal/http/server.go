package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenleaf/plant-notes/internal/config"
	"github.com/greenleaf/plant-notes/internal/imgproc"
	"github.com/greenleaf/plant-notes/internal/logger"
	"github.com/greenleaf/plant-notes/internal/metrics"
	"github.com/greenleaf/plant-notes/internal/repository"
	"github.com/greenleaf/plant-notes/internal/service"
	"github.com/greenleaf/plant-notes/internal/storage"
)

type Server struct{ e *echo.Echo }

var metricsOnce sync.Once

func NewServer(cfg config.Config, conn *sqlx.DB) *Server {
	// repos
	customersRepo := repository.NewCustomersRepository(conn)
	notesRepo := repository.NewNotesRepository(conn)
	imagesRepo := repository.NewImagesRepository(conn)

	// attachment plumbing
	store := storage.New(cfg.Uploads.Dir, cfg.Uploads.AllowedExtensions, logger.Log)
	proc := imgproc.New(cfg.Image.MaxDimension, cfg.Image.JPEGQuality)

	// services
	notesSvc := service.NewNotes(conn, customersRepo, notesRepo, imagesRepo, store, proc, logger.Log)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.HTTP.Debug
	e.Use(echoMid.Recover(), echoMid.Logger())
	if cfg.Uploads.MaxBytes > 0 {
		e.Use(echoMid.BodyLimit(strconv.FormatInt(cfg.Uploads.MaxBytes, 10)))
	}
	e.HTTPErrorHandler = errorHandler

	metricsOnce.Do(func() { metrics.MustRegister(prometheus.DefaultRegisterer) })

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// routes
	api := e.Group("/api")
	api.GET("/customers", listCustomersHandler(customersRepo))
	api.POST("/customers", createCustomerHandler(customersRepo))
	api.GET("/customers/:id", getCustomerHandler(customersRepo))
	api.GET("/customers/:id/notes", customerNotesHandler(customersRepo, notesSvc))
	api.GET("/customers/:id/report", customerReportHandler(customersRepo, notesRepo))

	api.GET("/notes", listNotesHandler(notesSvc))
	api.POST("/notes", createNoteHandler(notesSvc))
	api.GET("/notes/:id", getNoteHandler(notesSvc))
	api.PUT("/notes/:id", updateNoteHandler(notesSvc))
	api.DELETE("/notes/:id", deleteNoteHandler(notesSvc))
	api.POST("/notes/:id/images", addImagesHandler(notesSvc))
	api.DELETE("/notes/:id/images", deleteImageHandler(notesSvc))

	// stored files, scoped by a DB row lookup rather than the filesystem
	e.GET("/uploads/:customer_id/:note_id/:filename", serveUploadHandler(notesSvc))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error                  { return s.e.Start(addr) }
func (s *Server) Shutdown(ctx context.Context) error       { return s.e.Shutdown(ctx) }
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }

// errorHandler keeps every failure body in the uniform {"error": ...} shape,
// including echo's own routing 404s and recovered panics.
func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch {
		case code == http.StatusNotFound:
			msg = "Endpoint not found"
		case code < http.StatusInternalServerError:
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}
	}

	if !c.Response().Committed {
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}
