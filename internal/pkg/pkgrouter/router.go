package pkgrouter

import (
	"context"
	"net/http"
	"slices"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgboundary"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgerror"
	"github.com/shandysiswandi/faultline/internal/pkg/pkgresponse"
	"github.com/shandysiswandi/faultline/internal/pkg/pkguid"
)

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(ctx context.Context, r *http.Request) (any, error)

// Middleware wraps an http.Handler, typically to add cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware in order, returning the final wrapped handler.
// The first middleware is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}

// GetParam reads a path parameter stored by httprouter in the request context.
func GetParam(ctx context.Context, key string) string {
	return httprouter.ParamsFromContext(ctx).ByName(key)
}

// Options wires the router's collaborators. Zero values get defaults.
type Options struct {
	ID        Generator
	Boundary  *pkgboundary.Boundary
	Formatter *pkgresponse.Formatter
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr        *httprouter.Router
	boundary  *pkgboundary.Boundary
	formatter *pkgresponse.Formatter
	mws       []Middleware
}

// NewRouter builds the default application router with standard middleware.
//
// Every error a handler returns is classified by the boundary and rendered
// by the formatter; unknown routes and wrong methods render a not-found
// envelope.
func NewRouter(opts Options) *Router {
	if opts.Boundary == nil {
		opts.Boundary = pkgboundary.New(pkgboundary.Options{})
	}
	if opts.Formatter == nil {
		opts.Formatter = pkgresponse.NewFormatter(pkgresponse.Config{})
	}
	if opts.ID == nil {
		opts.ID = pkguid.NewUUID()
	}

	ro := &Router{
		boundary:  opts.Boundary,
		formatter: opts.Formatter,
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ro.WriteError(w, r, pkgerror.New(pkgerror.KindNotFound, "Endpoint not found"))
	})

	ro.hr = &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: false,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound:               notFound,
	}
	ro.mws = []Middleware{
		middlewareRecoverer(ro.WriteError),
		middlewareCorrelationID(opts.ID),
		middlewareLogging,
	}

	ro.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pkgresponse.WriteJSON(w, map[string]string{"message": "server is running well"}, http.StatusOK)
	}))

	return ro
}

// Use appends middleware to the existing middleware stack.
func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

// GET registers a GET endpoint using the application Handler signature.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// PUT registers a PUT endpoint using the application Handler signature.
func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

// PATCH registers a PATCH endpoint using the application Handler signature.
func (r *Router) PATCH(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPatch, path, h, mws...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

// Handle registers a raw http.Handler with the router.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(h, slices.Concat(r.mws, mws)...))
}

// WriteError classifies err and writes its envelope.
func (r *Router) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	r.formatter.Write(w, req, r.boundary, err)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := pkgboundary.Run(re.Context(), r.boundary, func(ctx context.Context) (any, error) {
			return h(ctx, re)
		})
		if err != nil {
			r.WriteError(w, re, err)
			return
		}
		encode(w, resp)
	}), slices.Concat(r.mws, mws)...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

type successReponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func encode(w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface {
		StatusCode() int
	}); ok {
		code = sc.StatusCode()
	}

	if code == http.StatusNoContent || resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg := "request has been successfully"
	if m, ok := resp.(interface {
		Message() string
	}); ok {
		msg = m.Message()
	}

	var meta map[string]any
	if m, ok := resp.(interface {
		Meta() map[string]any
	}); ok {
		meta = m.Meta()
	}

	pkgresponse.WriteJSON(w, successReponse{
		Message: msg,
		Data:    resp,
		Meta:    meta,
	}, code)
}
