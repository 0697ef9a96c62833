package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/vidgrab/vidgrab/internal/api/downloads"
	"github.com/vidgrab/vidgrab/pkg/logger"
)

var log = logger.Get("API")

type (
	RestConfig struct {
		HostAddr string `yaml:"host_address" env:"API_HOST_ADDR" env-default:"0.0.0.0:5000"`
	}

	controller interface {
		SetRoutes(*echo.Group)
	}

	// The RestGateway is a thin wrapper around the Echo HTTP router.
	// Its sole responsibility is to create the routes the server
	// exposes - the download lifecycle endpoints plus the static
	// pages - and to keep unexpected faults from leaking internals.
	RestGateway struct {
		config              *RestConfig
		ec                  *echo.Echo
		downloadsController controller
	}
)

// NewRestGateway constructs the Echo router and populates it with
// all routes. The downloads controller requires access to the
// extraction gateway and the artifact store, provided as arguments.
func NewRestGateway(config *RestConfig, extractor downloads.Extractor, store downloads.ArtifactStore) *RestGateway {
	ec := echo.New()
	ec.OnAddRouteHandler = func(host string, route echo.Route, handler echo.HandlerFunc, middleware []echo.MiddlewareFunc) {
		log.Emit(logger.DEBUG, "Registered new route %s %s\n", route.Method, route.Path)
	}
	ec.HidePort = true
	ec.HideBanner = true

	gateway := &RestGateway{
		config:              config,
		ec:                  ec,
		downloadsController: downloads.New(validator.New(), extractor, store),
	}

	ec.Use(middleware.Logger())
	ec.Use(middleware.Recover())
	ec.HTTPErrorHandler = gateway.handleError

	setPageRoutes(ec)
	gateway.downloadsController.SetRoutes(ec.Group(""))

	return gateway
}

// ServeHTTP lets the gateway be driven directly as an http.Handler,
// which the handler tests rely on.
func (gateway *RestGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gateway.ec.ServeHTTP(w, r)
}

// Run starts the echo router and blocks until the provided context
// is cancelled, or the router fails.
func (gateway *RestGateway) Run(parentCtx context.Context) error {
	ctx, ctxCancel := context.WithCancelCause(parentCtx)
	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gateway.ec.Start(gateway.config.HostAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxCancel(err)
		}
	}()

	go func(ec *echo.Echo) {
		<-ctx.Done()
		ec.Close()
	}(gateway.ec)

	wg.Wait()

	// Return the cancellation cause if any; parent context
	// cancellation is not an error case we should report.
	if cause := context.Cause(ctx); cause != ctx.Err() {
		return cause
	}

	return nil
}

// handleError degrades every uncaught fault to an opaque response.
// Unmatched paths answer with the main page body (with a 404 status)
// so stray navigation lands somewhere useful; anything else is an
// opaque 500 with the detail kept in the server log.
func (gateway *RestGateway) handleError(err error, ec echo.Context) {
	if ec.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code == http.StatusNotFound {
			_ = ec.HTML(http.StatusNotFound, pageIndex)
			return
		}

		if httpErr.Code < http.StatusInternalServerError {
			_ = ec.String(httpErr.Code, fmt.Sprint(httpErr.Message))
			return
		}
	}

	log.Emit(logger.ERROR, "unhandled fault serving %s %s: %s\n",
		ec.Request().Method, ec.Request().URL.Path, err.Error())
	_ = ec.String(http.StatusInternalServerError, "Internal server error")
}
