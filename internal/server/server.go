package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ri_query/internal/config"
	"ri_query/internal/domain/query"
	"ri_query/internal/infrastructure/spreadsheet"
	"ri_query/internal/models"
	"ri_query/internal/service"
	"ri_query/internal/storage"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

const (
	artifactsPath  = "/api/v1/artifacts/"
	maxUploadSize  = "10M"
	spreadsheetExt = ".xlsx"

	spreadsheetHint = "Please ensure your file is a valid Excel file with at least 5 columns of data in the first sheet."
)

// HTTPServer is what the application lifecycle needs from the server.
type HTTPServer interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	service service.QueryService
	logger  *logrus.Logger
	cfg     config.Config
}

// generateForm is the multipart form submitted by the page and the API.
type generateForm struct {
	Date       string   `form:"fic_mis_date" validate:"required"`
	GroupCount int      `form:"group_count"`
	GroupCodes []string `form:"group_code" validate:"required,dive,required"`
}

// generateResponse is returned by the JSON API.
type generateResponse struct {
	Count       int                `json:"count"`
	Queries     []string           `json:"queries"`
	Statements  []models.Statement `json:"statements"`
	ArtifactKey string             `json:"artifact_key,omitempty"`
	DownloadURL string             `json:"download_url,omitempty"`
}

// formError is a failure that should be shown to the user as-is.
type formError struct {
	status  int
	message string
	hint    string
	err     error
}

func (e *formError) Error() string { return e.message }
func (e *formError) Unwrap() error { return e.err }

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, queryService service.QueryService, logger *logrus.Logger) *Server {
	e := echo.New()
	e.Debug = cfg.IsDevelopment()
	e.HideBanner = true
	e.Renderer = &templateRenderer{tmpl: indexTemplate}
	e.Validator = newRequestValidator()

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(maxUploadSize))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency,
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("Request failed")
				return nil
			}
			entry.Debug("Request handled")
			return nil
		},
	}))

	server := &Server{
		echo:    e,
		service: queryService,
		logger:  logger,
		cfg:     cfg,
	}

	server.setupRoutes()
	return server
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.WithField("address", address).Info("Starting HTTP server")
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be driven directly, e.g. from httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// setupRoutes configures the server routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	// Form
	s.echo.GET("/", s.showForm)
	s.echo.POST("/generate", s.submitForm)

	// API routes
	api := s.echo.Group("/api/v1")
	{
		api.POST("/queries", s.generateQueries)
		api.GET("/artifacts/*", s.downloadArtifact)
		api.DELETE("/artifacts/*", s.deleteArtifact)
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "ri-query",
	})
}

// showForm renders an empty form with the requested number of code fields.
func (s *Server) showForm(c echo.Context) error {
	count, _ := strconv.Atoi(c.QueryParam("count"))
	return c.Render(http.StatusOK, "index", s.newPage(count, "", nil))
}

// submitForm handles the browser form and re-renders the page with the result.
func (s *Server) submitForm(c echo.Context) error {
	var form generateForm
	if err := c.Bind(&form); err != nil {
		s.logger.WithError(err).Warn("Failed to bind form")
		page := s.newPage(form.GroupCount, form.Date, nil)
		page.Error = "Invalid request format."
		return c.Render(http.StatusBadRequest, "index", page)
	}
	page := s.newPage(max(form.GroupCount, len(form.GroupCodes)), form.Date, form.GroupCodes)

	batch, err := s.generate(c, &form)
	if err != nil {
		fe := s.toFormError(err)
		page.Error = fe.message
		page.Hint = fe.hint
		return c.Render(fe.status, "index", page)
	}

	page.Count = batch.Len()
	page.Queries = batch.Text()

	key, err := s.service.SaveArtifact(c.Request().Context(), batch, "")
	if err != nil {
		s.logger.WithError(err).Error("Failed to save queries artifact")
		page.DownloadError = "The queries could not be saved for download."
	} else {
		page.DownloadURL = artifactsPath + key
	}

	return c.Render(http.StatusOK, "index", page)
}

// generateQueries is the JSON flavour of submitForm.
func (s *Server) generateQueries(c echo.Context) error {
	var form generateForm
	if err := c.Bind(&form); err != nil {
		s.logger.WithError(err).Error("Failed to bind request")
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request format",
		})
	}

	batch, err := s.generate(c, &form)
	if err != nil {
		fe := s.toFormError(err)
		body := map[string]string{"error": fe.message}
		if fe.hint != "" {
			body["hint"] = fe.hint
		}
		return c.JSON(fe.status, body)
	}

	resp := generateResponse{
		Count:      batch.Len(),
		Queries:    batch.SQL(),
		Statements: batch.Statements,
	}

	key, err := s.service.SaveArtifact(c.Request().Context(), batch, "")
	if err != nil {
		s.logger.WithError(err).Error("Failed to save queries artifact")
	} else {
		resp.ArtifactKey = key
		resp.DownloadURL = artifactsPath + key
	}

	return c.JSON(http.StatusOK, resp)
}

// downloadArtifact streams a saved queries file.
func (s *Server) downloadArtifact(c echo.Context) error {
	key := c.Param("*")

	rc, meta, err := s.service.OpenArtifact(c.Request().Context(), key)
	if err != nil {
		return s.artifactError(c, err)
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", models.DefaultArtifactName))
	if meta.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(meta.Size, 10))
	}
	return c.Stream(http.StatusOK, "text/plain; charset=utf-8", rc)
}

// deleteArtifact removes a saved queries file.
func (s *Server) deleteArtifact(c echo.Context) error {
	if err := s.service.DeleteArtifact(c.Request().Context(), c.Param("*")); err != nil {
		return s.artifactError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Artifact deleted successfully",
	})
}

func (s *Server) artifactError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Artifact not found"})
	case errors.Is(err, storage.ErrInvalidKey):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid artifact key"})
	}
	s.logger.WithError(err).Error("Artifact operation failed")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Artifact operation failed"})
}

// generate checks the upload and form, then runs the query service.
func (s *Server) generate(c echo.Context, form *generateForm) (*models.Batch, error) {
	fh, err := c.FormFile("columns_file")
	if err != nil {
		return nil, &formError{status: http.StatusBadRequest, message: "Please upload the Excel column definition file.", err: err}
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), spreadsheetExt) {
		return nil, &formError{status: http.StatusBadRequest, message: "Only .xlsx files are supported.", hint: spreadsheetHint}
	}

	if err := c.Validate(form); err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return s.service.GenerateFromSpreadsheet(c.Request().Context(), f, form.Date, form.GroupCodes)
}

func (s *Server) toFormError(err error) *formError {
	var fe *formError
	if errors.As(err, &fe) {
		return fe
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return &formError{status: he.Code, message: fmt.Sprint(he.Message), err: err}
	}

	switch {
	case errors.Is(err, query.ErrInvalidDate):
		return &formError{status: http.StatusBadRequest, message: "Invalid date format. Please enter in 'DD-MON-YYYY' format.", err: err}
	case errors.Is(err, query.ErrTooManyGroupCodes):
		return &formError{status: http.StatusBadRequest, message: fmt.Sprintf("At most %d RI group codes are allowed.", s.cfg.Query.MaxGroupCodes), err: err}
	case errors.Is(err, query.ErrEmptyGroupCode), errors.Is(err, query.ErrNoGroupCodes):
		return &formError{status: http.StatusBadRequest, message: "Please enter all required RI group codes.", err: err}
	case errors.Is(err, spreadsheet.ErrTooFewColumns), errors.Is(err, spreadsheet.ErrInvalidSpreadsheet):
		return &formError{status: http.StatusBadRequest, message: "An error occurred: " + err.Error(), hint: spreadsheetHint, err: err}
	}

	s.logger.WithError(err).Error("Failed to generate queries")
	return &formError{status: http.StatusInternalServerError, message: "An error occurred while generating queries.", err: err}
}

func (s *Server) newPage(count int, date string, codes []string) pageData {
	limit := s.cfg.Query.MaxGroupCodes
	if limit <= 0 {
		limit = 10
	}
	count = min(max(count, 1), limit)

	fields := make([]string, max(count, len(codes)))
	copy(fields, codes)

	return pageData{
		Table:         s.cfg.Query.TableName,
		MaxGroupCodes: limit,
		GroupCount:    count,
		Date:          date,
		GroupCodes:    fields,
	}
}
