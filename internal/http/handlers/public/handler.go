package public

import "github.com/bakehouse-next/internal/provider"

// Handler serves the storefront and guest APIs.
type Handler struct {
	*provider.Container
}

// New creates the storefront handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
