package bundles

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/items", h.ReplaceItems)
	r.Post("/{id}/items/add", h.AddItem)
	r.Delete("/{id}/items/{itemID}", h.DeleteItem)
}
