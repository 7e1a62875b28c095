package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	documentation "github.com/toyz/apidoc/internal/documentation"
	"github.com/toyz/apidoc/internal/utils"
)

const (
	// BasePath prefixes every documentation route
	BasePath = "/documentation"

	// RequestIDHeader carries the request id; a client supplied value is echoed back
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey stores the request id in the request context
	RequestIDKey = "request_id"

	// ShutdownTimeout bounds the graceful stop once the run context is done
	ShutdownTimeout = 5 * time.Second
)

// Server serves one pre-encoded document in JSON and YAML
type Server struct {
	web         WebServer
	diagnostics *utils.DiagnosticSystem
	jsonBody    []byte
	yamlBody    []byte
}

// New encodes doc and registers the documentation routes on web
func New(web WebServer, doc *openapi3.T, diagnostics *utils.DiagnosticSystem) (*Server, error) {
	jsonBody, err := documentation.Encode(doc, documentation.FormatJSON)
	if err != nil {
		return nil, err
	}
	yamlBody, err := documentation.Encode(doc, documentation.FormatYAML)
	if err != nil {
		return nil, err
	}

	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}

	s := &Server{
		web:         web,
		diagnostics: diagnostics,
		jsonBody:    jsonBody,
		yamlBody:    yamlBody,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.web.Use(RequestID())
	s.web.Use(s.accessLog)

	group := s.web.RegisterGroup(BasePath)
	group.RegisterRoute(http.MethodGet, "/openapi.json", s.serveDocument(documentation.FormatJSON, s.jsonBody))
	group.RegisterRoute(http.MethodGet, "/openapi.yaml", s.serveDocument(documentation.FormatYAML, s.yamlBody))
	group.RegisterRoute(http.MethodGet, "/healthz", s.health)
}

func (s *Server) serveDocument(format documentation.Format, body []byte) HandlerFunc {
	return func(ctx RequestContext) error {
		return ctx.Blob(http.StatusOK, format.ContentType(), body)
	}
}

func (s *Server) health(ctx RequestContext) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) accessLog(next HandlerFunc) HandlerFunc {
	return func(ctx RequestContext) error {
		start := time.Now()
		err := next(ctx)
		s.diagnostics.Debug("%s %s (%s) request_id=%v", ctx.Method(), ctx.Path(), time.Since(start), ctx.Get(RequestIDKey))
		if err != nil {
			s.diagnostics.Warn("%s %s failed: %v", ctx.Method(), ctx.Path(), err)
		}
		return err
	}
}

// RequestID tags every response with an X-Request-ID, generating a UUID
// when the client did not send one
func RequestID() MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx RequestContext) error {
			id := ctx.Header(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			ctx.SetHeader(RequestIDHeader, id)
			ctx.Set(RequestIDKey, id)
			return next(ctx)
		}
	}
}

// Name returns the name of the underlying framework
func (s *Server) Name() string {
	return s.web.Name()
}

// Run serves on addr until ctx is done, then stops gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.web.Start(addr)
	}()

	s.diagnostics.Info("Serving documentation with %s on %s%s/openapi.json", s.web.Name(), addr, BasePath)

	select {
	case err := <-errCh:
		return ignoreClosed(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.web.Stop(shutdownCtx); err != nil {
		return err
	}

	select {
	case err := <-errCh:
		return ignoreClosed(err)
	case <-shutdownCtx.Done():
		return shutdownCtx.Err()
	}
}

func ignoreClosed(err error) error {
	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
