package sim

// A Middleware is one stage of the work a component performs per tick.
// Components split their logic into stages (e.g., parse, issue, respond) and
// register each as a middleware.
type Middleware interface {
	// Tick runs one cycle of this stage, reporting whether it made progress.
	Tick() bool
}

// MiddlewareHolder chains middlewares and ticks them in registration order.
type MiddlewareHolder struct {
	middlewares []Middleware
}

// AddMiddleware appends a middleware to the chain.
func (h *MiddlewareHolder) AddMiddleware(m Middleware) {
	h.middlewares = append(h.middlewares, m)
}

// Middlewares returns the chain in tick order.
func (h *MiddlewareHolder) Middlewares() []Middleware {
	return h.middlewares
}

// Tick runs one cycle of every middleware. It reports whether any of them
// made progress.
func (h *MiddlewareHolder) Tick() bool {
	progress := false

	for _, m := range h.middlewares {
		if m.Tick() {
			progress = true
		}
	}

	return progress
}
