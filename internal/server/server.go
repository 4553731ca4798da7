// Package server exposes a registry of grammars over HTTP.
//
// Routes:
//
//	/                      registered grammars, one "name version source" line each
//	/render?grammar=&depth=&trees=   SVG forest
//	/expand?grammar=&depth=          expanded symbol string
//	/stats                 expvar counters; /stats?r=lsys filters by name
package server

import (
	"bytes"
	"context"
	"errors"
	"expvar"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/fasthash/fnv1a"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/expvarhandler"
	"go.uber.org/zap"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/core"
	"github.com/comalice/lsystemx/internal/primitives"
	"github.com/comalice/lsystemx/internal/production"
)

var (
	requests     = expvar.NewInt("lsysRequests")
	renders      = expvar.NewInt("lsysRenders")
	notModified  = expvar.NewInt("lsysNotModified")
	clientErrors = expvar.NewInt("lsysClientErrors")
	serverErrors = expvar.NewInt("lsysServerErrors")
	bodyBytes    = expvar.NewInt("lsysResponseBodyBytes")
)

// Server renders grammars from a registry on demand.
type Server struct {
	registry *core.Registry
	renderer *core.Renderer
	logger   *zap.Logger
	http     *fasthttp.Server
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a Server. A nil logger discards output.
func New(reg *core.Registry, r *core.Renderer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{registry: reg, renderer: r, logger: logger, ctx: ctx, cancel: cancel}
	s.http = &fasthttp.Server{
		Handler:      s.Handler,
		Name:         "lsys",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
	}
	return s
}

// ListenAndServe serves on addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", zap.String("addr", addr))
	return s.http.ListenAndServe(addr)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.http.Serve(ln)
}

// Shutdown stops accepting requests, abandons in-flight renders and waits for
// open connections to close.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	return s.http.ShutdownWithContext(ctx)
}

// Handler routes a request.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	requests.Add(1)
	id := uuid.NewString()
	ctx.Response.Header.Set("X-Request-Id", id)
	start := time.Now()

	switch string(ctx.Path()) {
	case "/":
		s.handleIndex(ctx)
	case "/render":
		s.handleRender(ctx)
	case "/expand":
		s.handleExpand(ctx)
	case "/stats":
		expvarhandler.ExpvarHandler(ctx)
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}

	status := ctx.Response.StatusCode()
	switch {
	case status >= 500:
		serverErrors.Add(1)
	case status >= 400:
		clientErrors.Add(1)
	case status == fasthttp.StatusNotModified:
		notModified.Add(1)
	}
	bodyBytes.Add(int64(len(ctx.Response.Body())))

	s.logger.Info("request",
		zap.String("id", id),
		zap.ByteString("method", ctx.Method()),
		zap.ByteString("uri", ctx.RequestURI()),
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(start)))
}

func (s *Server) handleIndex(ctx *fasthttp.RequestCtx) {
	var buf bytes.Buffer
	for _, name := range s.registry.Names() {
		e, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&buf, "%s %d %s\n", e.Name, e.Version, e.Source)
	}
	ctx.Success("text/plain; charset=utf-8", buf.Bytes())
}

// request holds the parsed query shared by /render and /expand.
type request struct {
	entry core.Entry
	depth int
	trees int
}

func (s *Server) parse(ctx *fasthttp.RequestCtx) (request, bool) {
	cfg := s.renderer.Config()
	args := ctx.QueryArgs()

	name := string(args.Peek("grammar"))
	if name == "" {
		names := s.registry.Names()
		if len(names) == 0 {
			ctx.Error("no grammars loaded", fasthttp.StatusNotFound)
			return request{}, false
		}
		name = names[0]
	}
	e, err := s.registry.Get(name)
	if err != nil {
		ctx.Error(fmt.Sprintf("grammar %q: %v", name, err), fasthttp.StatusNotFound)
		return request{}, false
	}

	req := request{entry: e, depth: cfg.Depth, trees: cfg.Trees}
	if err := intArg(args, "depth", &req.depth); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return request{}, false
	}
	if err := intArg(args, "trees", &req.trees); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return request{}, false
	}
	if err := cfg.CheckDepth(req.depth); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return request{}, false
	}
	if err := cfg.CheckTrees(req.trees); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return request{}, false
	}
	return req, true
}

func intArg(args *fasthttp.Args, key string, dst *int) error {
	raw := args.Peek(key)
	if len(raw) == 0 {
		return nil
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	*dst = v
	return nil
}

// etag identifies a render by grammar fingerprint, canvas and query.
func (s *Server) etag(req request) string {
	cfg := s.renderer.Config()
	h := fnv1a.AddUint64(fnv1a.Init64, req.entry.Fingerprint)
	h = fnv1a.AddUint64(h, uint64(req.depth))
	h = fnv1a.AddUint64(h, uint64(req.trees))
	h = fnv1a.AddUint64(h, uint64(cfg.Width)<<32|uint64(cfg.Height))
	return fmt.Sprintf(`"%016x"`, h)
}

func (s *Server) handleRender(ctx *fasthttp.RequestCtx) {
	req, ok := s.parse(ctx)
	if !ok {
		return
	}
	tag := s.etag(req)
	ctx.Response.Header.Set("ETag", tag)
	if string(ctx.Request.Header.Peek("If-None-Match")) == tag {
		ctx.SetStatusCode(fasthttp.StatusNotModified)
		return
	}

	cfg := s.renderer.Config()
	var buf bytes.Buffer
	svg := production.NewSVGSurface(&buf, cfg.Width, cfg.Height, cfg.BackgroundColor())
	res, err := s.renderer.Render(s.ctx, req.entry.Grammar, req.depth, req.trees, svg)
	svg.Close()
	if err != nil {
		s.renderError(ctx, err)
		return
	}
	renders.Add(1)
	ctx.Response.Header.Set("X-Lsys-Digest", res.Digest)
	ctx.Response.Header.Set("X-Lsys-Length", strconv.Itoa(res.Length))
	ctx.Success("image/svg+xml", buf.Bytes())
}

func (s *Server) handleExpand(ctx *fasthttp.RequestCtx) {
	req, ok := s.parse(ctx)
	if !ok {
		return
	}
	symbols := req.entry.Grammar.Expand(req.depth)
	ctx.Response.Header.Set("X-Lsys-Digest", lsystemx.Digest(symbols))
	ctx.Response.Header.Set("X-Lsys-Length", strconv.Itoa(len(symbols)))
	ctx.Success("text/plain; charset=utf-8", []byte(symbols))
}

func (s *Server) renderError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, lsystemx.ErrStackUnderflow):
		ctx.Error(err.Error(), fasthttp.StatusUnprocessableEntity)
	case errors.Is(err, primitives.ErrDepthLimit), errors.Is(err, primitives.ErrTreeLimit):
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
	case errors.Is(err, context.Canceled):
		ctx.Error("server shutting down", fasthttp.StatusServiceUnavailable)
	default:
		s.logger.Error("render failed", zap.Error(err))
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
	}
}
