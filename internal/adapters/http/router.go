package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/routers"

	"github.com/wardrobeaiapp/wardrobe-assistant/internal/config"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/analysis"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/domain"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/core/ports"
	"github.com/wardrobeaiapp/wardrobe-assistant/internal/observability/metrics"
)

const (
	readinessTimeout    = 2 * time.Second
	maxJSONRequestBytes = 1 << 20
)

// ReadinessCheck probes one dependency for /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Router struct {
	items    ports.WardrobeCatalogue
	analyzer ports.ItemAnalyzer
	importer ports.WardrobeImporter
	engine   *analysis.Engine

	apiKey            string
	rateLimitRPS      float64
	rateLimitBurst    int
	maxInFlight       int
	backpressureWait  time.Duration
	maxUploadBytes    int64
	openAPIValidation bool
	openAPIRouter     routers.Router
	validator         *requestValidator
	metrics           *metrics.HTTPServerMetrics
	readinessChecks   []ReadinessCheck
}

type RouterOption func(*Router)

func WithMetrics(m *metrics.HTTPServerMetrics) RouterOption {
	return func(rt *Router) {
		rt.metrics = m
	}
}

func WithReadinessCheck(name string, check func(ctx context.Context) error) RouterOption {
	return func(rt *Router) {
		rt.readinessChecks = append(rt.readinessChecks, ReadinessCheck{Name: name, Check: check})
	}
}

func NewRouter(
	cfg config.Config,
	items ports.WardrobeCatalogue,
	analyzer ports.ItemAnalyzer,
	importer ports.WardrobeImporter,
	engine *analysis.Engine,
	opts ...RouterOption,
) (*Router, error) {
	rt := &Router{
		items:             items,
		analyzer:          analyzer,
		importer:          importer,
		engine:            engine,
		apiKey:            cfg.APIKey,
		rateLimitRPS:      cfg.APIRateLimitRPS,
		rateLimitBurst:    cfg.APIRateLimitBurst,
		maxInFlight:       cfg.APIMaxInFlight,
		backpressureWait:  cfg.APIBackpressureWait,
		maxUploadBytes:    cfg.APIMaxUploadBytes,
		openAPIValidation: cfg.OpenAPIValidation,
		validator:         newRequestValidator(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.maxUploadBytes <= 0 {
		rt.maxUploadBytes = 10 << 20
	}

	if rt.openAPIValidation {
		router, err := loadOpenAPIRouter()
		if err != nil {
			return nil, err
		}
		rt.openAPIRouter = router
	}
	return rt, nil
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/readyz", rt.readyz)
	mux.HandleFunc("/openapi.yaml", rt.openAPIDocument)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("/v1/items", rt.itemsCollection)
	mux.HandleFunc("/v1/items/import", rt.importItems)
	mux.HandleFunc("/v1/items/", rt.getItemByID)
	mux.HandleFunc("/v1/analysis", rt.analyzeCandidate)
	mux.HandleFunc("/v1/extraction/parse", rt.parseExtraction)
	mux.HandleFunc("/v1/extraction/prompt", rt.extractionPrompt)

	var handler http.Handler = mux
	if rt.openAPIRouter != nil {
		handler = openAPIValidationMiddleware(handler, rt.openAPIRouter)
	}
	handler = apiKeyMiddleware(handler, rt.apiKey)
	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.backpressureWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string, len(rt.readinessChecks))
	ready := true
	for _, check := range rt.readinessChecks {
		if err := check.Check(ctx); err != nil {
			ready = false
			checks[check.Name] = err.Error()
			loggerFromContext(r.Context()).Warn("readiness_check_failed", "check", check.Name, "error", err)
			continue
		}
		checks[check.Name] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

func (rt *Router) itemsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.createItem(w, r)
	case http.MethodGet:
		rt.listItems(w, r)
	default:
		writeMethodNotAllowed(w)
	}
}

func (rt *Router) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !rt.decodeAndValidate(w, r, &req) {
		return
	}

	item, err := rt.items.AddItem(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (rt *Router) listItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := rt.items.ListItems(r.Context(), query.Get("user_id"), domain.ItemFilter{
		Category:    query.Get("category"),
		Subcategory: query.Get("subcategory"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.WardrobeItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (rt *Router) getItemByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/items/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "item id is required"})
		return
	}

	item, err := rt.items.GetItem(r.Context(), r.URL.Query().Get("user_id"), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (rt *Router) importItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload exceeds size limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form is required"})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	summary, err := rt.importer.Import(r.Context(), r.FormValue("user_id"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordImport(len(summary.Imported), len(summary.Failed))
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) analyzeCandidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req analysisRequest
	if !rt.decodeAndValidate(w, r, &req) {
		return
	}

	report, err := rt.analyzer.Analyze(r.Context(), domain.AnalysisRequest{
		UserID:      req.UserID,
		Candidate:   req.Candidate.toDomain(),
		Description: req.Description,
		WithAdvice:  req.WithAdvice,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) parseExtraction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req parseExtractionRequest
	if !rt.decodeAndValidate(w, r, &req) {
		return
	}

	attrs, ok := rt.engine.ParseExtractionResponse(req.Response, req.Category)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      domain.ErrExtractionUnresolved.Error(),
			"attributes": attrs,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attributes": attrs})
}

func (rt *Router) extractionPrompt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category is required"})
		return
	}
	prompt := rt.engine.GenerateExtractionPrompt(category, strings.TrimSpace(r.URL.Query().Get("subcategory")))
	writeJSON(w, http.StatusOK, map[string]string{"prompt": prompt})
}

func (rt *Router) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONRequestBytes))
	if err := decoder.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	if err := rt.validator.Validate(dst); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("http_handler_failed",
			"path", r.URL.Path,
			"error", err,
		)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message, "code": code})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("http_response_encode_failed", "status", status, "error", err)
	}
}
