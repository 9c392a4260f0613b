package admin

import "github.com/bakehouse-next/internal/provider"

// Handler serves the admin API. Routes mounting it sit behind the admin
// role middleware.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
