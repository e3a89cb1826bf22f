// Package web serves the hex overlay to a browser map.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"hexmap/internal/export"
	"hexmap/internal/hexes"
	"hexmap/internal/metrics"
	"hexmap/internal/overlay"
)

// View is the initial map camera.
type View struct {
	Center [2]float64 // lat, lon
	Zoom   int
}

// Server holds one rendered overlay; handlers only read it.
type Server struct {
	view    View
	geojson []byte
	log     *slog.Logger
	handler http.Handler
}

// New runs the render pass into a GeoJSON canvas and prepares the handlers.
// Server start is the canvas ready point for the web map.
func New(d *hexes.Dataset, r *overlay.Renderer, view View, l *slog.Logger) (*Server, error) {
	g := export.NewGeoJSON()
	if err := r.Render(d, g); err != nil {
		return nil, err
	}
	b, err := g.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode overlay: %w", err)
	}
	s := &Server{view: view, geojson: b, log: l}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /hexes.geojson", s.handleGeoJSON)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	s.handler = accessLog(l)(mux)
	return s, nil
}

// Handler returns the root handler with access logging.
func (s *Server) Handler() http.Handler { return s.handler }

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("http_listen", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("http_stopped")
	return nil
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(s.geojson)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, s.view); err != nil {
		s.log.Error("index_render_error", "err", err)
	}
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>hexmap</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css" />
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
  <div id="map"></div>
  <script>
    var map = L.map('map').setView([{{index .Center 0}}, {{index .Center 1}}], {{.Zoom}});
    L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png').addTo(map);
    fetch('hexes.geojson').then(function (r) { return r.json(); }).then(function (fc) {
      console.log(fc.features.length + " hexes");
      L.geoJSON(fc, {
        style: function (f) {
          var p = f.properties;
          return {
            fillColor: p.fill,
            color: p.stroke,
            opacity: p.opacity,
            fillOpacity: p.opacity,
            weight: p.stroke_width,
            dashArray: p.stroke_style === 'solid' ? null : '4 4'
          };
        },
        onEachFeature: function (f, layer) {
          // labels carry hex ids from the dataset; show them as text
          var el = document.createElement('span');
          el.textContent = f.properties.label;
          layer.bindPopup(el);
        }
      }).addTo(map);
    });
  </script>
</body>
</html>
`))

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessLog records method, path, status, size and duration of each request.
func accessLog(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)
			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			metrics.RequestsTotal.WithLabelValues(route).Inc()
			l.Debug("http_access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", r.RemoteAddr,
			)
		})
	}
}
