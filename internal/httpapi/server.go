package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelkit/internal/common/fsutil"
	"modelkit/internal/manifest"
	"modelkit/internal/presets"
	"modelkit/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Presets() []presets.Preset
	Status() types.StatusResponse
	Render(req types.ManifestRequest) (string, error)
	Write(req types.ManifestRequest, path string) (string, error)
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if corsEnabled {
		r.Use(corsMiddleware())
	}
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/presets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"presets": svc.Presets()})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Post("/render", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeManifestRequest(w, r)
		if !ok {
			return
		}
		lvl := requestLogLevel(r)
		start := time.Now()
		logStart(r, lvl, firstSet(req.ModelPath, req.Model))
		text, err := svc.Render(req)
		if err != nil {
			status := statusFor(err)
			writeJSONError(w, status, err.Error())
			logEnd(r, lvl, status, start, err)
			return
		}
		observeManifest(len(text))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		out := io.Writer(w)
		if lvl >= LevelDebug {
			out = io.MultiWriter(w, &loggingLineWriter{})
		}
		_, _ = io.WriteString(out, text)
		logEnd(r, lvl, http.StatusOK, start, nil)
	})

	r.Post("/manifests", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeManifestRequest(w, r)
		if !ok {
			return
		}
		rel := req.Output
		if rel == "" {
			rel = manifest.DefaultFilename
		}
		path, err := fsutil.ResolveUnder(outputRoot, rel)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		lvl := requestLogLevel(r)
		start := time.Now()
		logStart(r, lvl, firstSet(req.ModelPath, req.Model))
		text, err := svc.Write(req, path)
		if err != nil {
			status := statusFor(err)
			writeJSONError(w, status, err.Error())
			logEnd(r, lvl, status, start, err)
			return
		}
		observeManifest(len(text))
		if lvl >= LevelDebug {
			_, _ = io.WriteString(&loggingLineWriter{}, text)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.WriteResponse{Path: path, Bytes: len(text)})
		logEnd(r, lvl, http.StatusCreated, start, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// decodeManifestRequest enforces a JSON body within maxBodyBytes. It writes
// the error response itself and reports false on failure.
func decodeManifestRequest(w http.ResponseWriter, r *http.Request) (types.ManifestRequest, bool) {
	var req types.ManifestRequest
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return req, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		// If exceeded size, MaxBytesReader may cause an error; still return 400 to avoid size leak details
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	if strings.TrimSpace(req.Model) == "" && strings.TrimSpace(req.ModelPath) == "" {
		writeJSONError(w, http.StatusBadRequest, "model or model_path is required")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

func firstSet(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
