package server

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap/zaptest"

	"github.com/comalice/lsystemx"
	"github.com/comalice/lsystemx/internal/core"
	"github.com/comalice/lsystemx/internal/primitives"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	reg := core.NewRegistry()
	plant, err := lsystemx.ParseString("X\n-1 X = T[+X][-X]sL\nT = TT\n%L = [+L][-L]\n")
	require.NoError(t, err)
	reg.Put("plant", "plant.lsys", plant)

	broken, err := lsystemx.ParseString("A\nA = T]\n")
	require.NoError(t, err)
	reg.Put("broken", "broken.lsys", broken)

	r, err := core.NewRenderer(core.WithConfig(primitives.RenderConfig{MaxDepth: 8, Depth: 3}))
	require.NoError(t, err)
	return New(reg, r, zaptest.NewLogger(t))
}

func do(s *Server, uri string, header ...string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.SetRequestURI(uri)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	s.Handler(&ctx)
	return &ctx
}

func TestIndex(t *testing.T) {
	ctx := do(newServer(t), "/")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "broken 1 broken.lsys\nplant 1 plant.lsys\n", string(ctx.Response.Body()))
	assert.Len(t, ctx.Response.Header.Peek("X-Request-Id"), 36)
}

func TestRenderSVG(t *testing.T) {
	s := newServer(t)
	ctx := do(s, "/render?grammar=plant&depth=4&trees=2")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	assert.Equal(t, "image/svg+xml", string(ctx.Response.Header.ContentType()))

	body := string(ctx.Response.Body())
	assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "</svg>"))
	assert.Contains(t, body, "<polygon")

	symbols := mustGet(t, s, "plant").Grammar.Expand(4)
	assert.Equal(t, lsystemx.Digest(symbols), string(ctx.Response.Header.Peek("X-Lsys-Digest")))

	etag := string(ctx.Response.Header.Peek("ETag"))
	require.NotEmpty(t, etag)

	again := do(s, "/render?grammar=plant&depth=4&trees=2", "If-None-Match", etag)
	assert.Equal(t, fasthttp.StatusNotModified, again.Response.StatusCode())
	assert.Empty(t, again.Response.Body())

	other := do(s, "/render?grammar=plant&depth=5&trees=2")
	assert.NotEqual(t, etag, string(other.Response.Header.Peek("ETag")))
}

func TestRenderDefaults(t *testing.T) {
	s := newServer(t)
	// With no grammar named, the first in sorted order is used.
	ctx := do(s, "/render")
	assert.Equal(t, fasthttp.StatusUnprocessableEntity, ctx.Response.StatusCode())

	ctx = do(s, "/expand?grammar=plant")
	assert.Equal(t, mustGet(t, s, "plant").Grammar.Expand(3), string(ctx.Response.Body()))
}

func TestBadRequests(t *testing.T) {
	s := newServer(t)
	for uri, want := range map[string]int{
		"/render?grammar=plant&depth=9":                           fasthttp.StatusBadRequest,
		"/render?grammar=plant&depth=-1":                          fasthttp.StatusBadRequest,
		"/render?grammar=plant&depth=x":                           fasthttp.StatusBadRequest,
		"/render?grammar=plant&trees=0":                           fasthttp.StatusBadRequest,
		"/render?grammar=plant&trees=65":                          fasthttp.StatusBadRequest,
		"/render?grammar=plant&depth=0&trees=4611686018427387904": fasthttp.StatusBadRequest,
		"/expand?grammar=plant&trees=-2":                          fasthttp.StatusBadRequest,
		"/expand?grammar=fern":                                    fasthttp.StatusNotFound,
		"/render?grammar=broken&depth=1":                          fasthttp.StatusUnprocessableEntity,
		"/nowhere":                                                fasthttp.StatusNotFound,
	} {
		ctx := do(s, uri)
		assert.Equal(t, want, ctx.Response.StatusCode(), uri)
	}
}

func TestRenderETagFollowsReload(t *testing.T) {
	s := newServer(t)
	etag := string(do(s, "/render?grammar=plant&depth=2").Response.Header.Peek("ETag"))

	same, err := lsystemx.ParseString(mustGet(t, s, "plant").Grammar.String())
	require.NoError(t, err)
	s.registry.Put("plant", "plant.lsys", same)
	assert.Equal(t, etag, string(do(s, "/render?grammar=plant&depth=2").Response.Header.Peek("ETag")))

	changed, err := lsystemx.ParseString("X\nX = T[+X]L\n")
	require.NoError(t, err)
	s.registry.Put("plant", "plant.lsys", changed)
	assert.NotEqual(t, etag, string(do(s, "/render?grammar=plant&depth=2").Response.Header.Peek("ETag")))
}

func TestExpandHeaders(t *testing.T) {
	ctx := do(newServer(t), "/expand?grammar=plant&depth=2")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	body := string(ctx.Response.Body())
	assert.Equal(t, lsystemx.Digest(body), string(ctx.Response.Header.Peek("X-Lsys-Digest")))
	assert.Equal(t, len(body), mustAtoi(t, string(ctx.Response.Header.Peek("X-Lsys-Length"))))
}

func TestStatsCounters(t *testing.T) {
	s := newServer(t)
	do(s, "/expand?grammar=plant")
	ctx := do(s, "/stats?r=lsys")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "lsysRequests")
}

func TestServeAndShutdown(t *testing.T) {
	s := newServer(t)
	ln := fasthttputil.NewInmemoryListener()
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	conn, err := ln.Dial()
	require.NoError(t, err)
	_, err = conn.Write([]byte("GET /expand?grammar=plant&depth=1 HTTP/1.1\r\nHost: lsys\r\nConnection: close\r\n\r\n"))
	require.NoError(t, err)

	var resp fasthttp.Response
	require.NoError(t, resp.Read(bufioReader(conn)))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	conn.Close()

	require.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}

func mustGet(t *testing.T, s *Server, name string) core.Entry {
	t.Helper()
	e, err := s.registry.Get(name)
	require.NoError(t, err)
	return e
}

func mustAtoi(t *testing.T, v string) int {
	t.Helper()
	n, err := strconv.Atoi(v)
	require.NoError(t, err)
	return n
}

func bufioReader(c net.Conn) *bufio.Reader {
	return bufio.NewReader(c)
}
