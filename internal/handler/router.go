// internal/handler/router.go
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/silversky/partnersms-backend/internal/repository"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Partners   *PartnerHandler
	Categories *CategoryHandler
	Broadcasts *BroadcastHandler
	Messages   *MessageHandler
	Templates  *TemplateHandler
	Scheduled  *ScheduledHandler
	Stats      *StatsHandler
	Webhooks   *WebhookHandler
}

// NewRouter wires all routes.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/partners", func(r chi.Router) {
			r.Get("/", h.Partners.List)
			r.Post("/", h.Partners.Create)
			r.Post("/import", h.Partners.Import)
			r.Get("/export", h.Partners.Export)
			r.Get("/{id}", h.Partners.Get)
			r.Put("/{id}", h.Partners.Update)
			r.Post("/{id}/archive", h.Partners.ToggleArchive)
			r.Post("/{id}/pin", h.Partners.TogglePin)
			r.Post("/{id}/notes", h.Partners.UpdateNotes)
			r.Get("/{id}/export", h.Messages.ExportThread)
		})

		categoryRoutes := func(r chi.Router, kind repository.CategoryKind) {
			r.Get("/", h.Categories.list(kind))
			r.Post("/", h.Categories.create(kind))
			r.Put("/{id}", h.Categories.rename(kind))
			r.Delete("/{id}", h.Categories.delete(kind))
		}
		r.Route("/regions", func(r chi.Router) { categoryRoutes(r, repository.KindRegion) })
		r.Route("/tsds", func(r chi.Router) { categoryRoutes(r, repository.KindTSD) })
		r.Route("/products", func(r chi.Router) { categoryRoutes(r, repository.KindProduct) })

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", h.Categories.ListTags)
			r.Post("/", h.Categories.CreateTag)
			r.Put("/{id}", h.Categories.UpdateTag)
			r.Delete("/{id}", h.Categories.DeleteTag)
		})

		r.Post("/segment/preview", h.Broadcasts.PreviewSegment)
		r.Post("/send", h.Broadcasts.Send)
		r.Post("/broadcast", h.Broadcasts.Dispatch)
		r.Post("/broadcast/preview", h.Broadcasts.Preview)
		r.Get("/broadcast/variables", h.Broadcasts.Variables)

		r.Get("/messages/{id}", h.Messages.Thread)
		r.Get("/conversations", h.Messages.Conversations)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.Templates.List)
			r.Post("/", h.Templates.Create)
			r.Put("/{id}", h.Templates.Update)
			r.Delete("/{id}", h.Templates.Delete)
		})

		r.Route("/scheduled", func(r chi.Router) {
			r.Get("/", h.Scheduled.List)
			r.Post("/", h.Scheduled.Create)
			r.Delete("/{id}", h.Scheduled.Cancel)
		})

		r.Get("/stats", h.Stats.Get)
	})

	r.Post("/webhook/incoming", h.Webhooks.Incoming)
	r.Post("/webhook/status", h.Webhooks.Status)

	return r
}
