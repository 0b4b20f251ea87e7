package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler is the signature used by all application handlers in this service.
type Handler func(c *Context) error

// Middleware is a function designed to run some code before and/or after
// another Handler.
type Middleware func(Handler) Handler

// App is the entrypoint into our application and what configures our context
// object for each of our http handlers.
type App struct {
	*gin.Engine
}

// NewApp creates an App value that handles a set of routes for the
// application.
func NewApp() *App {
	gin.SetMode(gin.ReleaseMode)

	return &App{
		Engine: gin.New(),
	}
}

func (a *App) handle(method, path string, handler Handler, mw ...Middleware) {
	// Wrap the route specific middleware around this handler.
	handler = wrapMiddleware(mw, handler)

	h := func(c *gin.Context) {
		ctx := &Context{
			Context: c,
			Ctx:     c.Request.Context(),
		}

		if err := handler(ctx); err != nil {
			_ = ctx.RespondError(err)
			return
		}
	}

	a.Engine.Handle(method, path, h)
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodDelete, path, handler, mw...)
}

// wrapMiddleware creates a new handler by wrapping middleware around a final
// handler. The middlewares' Handlers will be executed by requests in the
// order they are provided.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	// Loop backwards through the middleware invoking each one. Replace the
	// handler with the new wrapped handler. Looping backwards ensures that
	// the first middleware of the slice is the first to be executed by
	// requests.
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}
