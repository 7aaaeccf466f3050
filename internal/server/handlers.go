package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/matzehuels/autolayout/pkg/buildinfo"
	"github.com/matzehuels/autolayout/pkg/cache"
	"github.com/matzehuels/autolayout/pkg/diagram"
	"github.com/matzehuels/autolayout/pkg/errors"
	aio "github.com/matzehuels/autolayout/pkg/io"
	"github.com/matzehuels/autolayout/pkg/layout"
	"github.com/matzehuels/autolayout/pkg/observability"
	"github.com/matzehuels/autolayout/pkg/preview"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// LayoutResponse is the body of POST /v1/layout and /v1/pack.
type LayoutResponse struct {
	Cached bool           `json:"cached" yaml:"cached"`
	Result *layout.Result `json:"result" yaml:"result"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.serveRun(w, r, layout.ModeLayout)
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	s.serveRun(w, r, layout.ModePack)
}

func (s *Server) serveRun(w http.ResponseWriter, r *http.Request, mode layout.Mode) {
	res, cached, err := s.run(r, mode)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	setCacheHeader(w, cached)

	format := aio.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = aio.ParseFormat(q); err != nil {
			s.respondError(w, r, err)
			return
		}
	}
	var buf bytes.Buffer
	if err := aio.Encode(&buf, LayoutResponse{Cached: cached, Result: res}, format); err != nil {
		s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/"+string(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, cached, err := s.run(r, layout.ModeLayout)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	opts := preview.DefaultOptions()
	if r.URL.Query().Get("labels") == "false" {
		opts.Labels = false
	}

	ctx := r.Context()
	var key string
	if h, err := cache.HashJSON(struct {
		P map[string]layout.Placement
		R []layout.Route
	}{res.Placements, res.Routes}); err == nil {
		key = s.keyer.PreviewKey(h, cache.PreviewKeyOpts{Format: "svg", Labels: opts.Labels})
	}

	var svg []byte
	if key != "" {
		if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			svg = data
		}
	}
	if svg == nil {
		cached = false
		svg, err = preview.SVG(ctx, res, opts)
		if err != nil {
			s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render preview"))
			return
		}
		if key != "" {
			if err := s.cache.Set(ctx, key, svg, cache.TTLPreview); err != nil {
				s.logger.Warn("cache set", "err", err)
			}
		}
	}
	setCacheHeader(w, cached)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

// run decodes, validates and lays out the request body under the request
// timeout.
func (s *Server) run(r *http.Request, mode layout.Mode) (*layout.Result, bool, error) {
	d, err := s.decode(r)
	if err != nil {
		return nil, false, err
	}
	if err := diagram.Validate(d); err != nil {
		return nil, false, err
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	return s.runner(d.Style).Run(ctx, mode, d)
}

func (s *Server) decode(r *http.Request) (*diagram.Diagram, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeTooLarge, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		return aio.ReadDiagram(bytes.NewReader(body), aio.FormatJSON)
	case "application/yaml", "application/x-yaml", "text/yaml":
		return aio.ReadDiagram(bytes.NewReader(body), aio.FormatYAML)
	}
	return aio.DecodeDiagram(body)
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	s.respondJSON(w, status, ErrorResponse{Error: string(code), Message: errors.UserMessage(err)})
}
