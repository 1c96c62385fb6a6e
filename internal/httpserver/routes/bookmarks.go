package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/auth"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/mw"
)

func init() { Register("bookmarks", registerBookmarks, auth.RequireSession) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Get("/bookmarks", handlers.ListBookmarks(d))
	r.Post("/bookmarks", handlers.CreateBookmark(d))
	r.Get("/bookmarks/search", handlers.SearchBookmarks(d))
	r.Get("/bookmarks/folder/{folderId}", handlers.BookmarksByFolder(d))
	r.Get("/bookmarks/tag/{tag}", handlers.BookmarksByTag(d))
	r.Post("/bookmarks/import", handlers.ImportBookmarks(d))
	r.Get("/bookmarks/{id}", handlers.GetBookmark(d))
	r.Put("/bookmarks/{id}", handlers.UpdateBookmark(d))
	r.Delete("/bookmarks/{id}", handlers.DeleteBookmark(d))

	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateBurst,
		RefillPerIPPerMin: d.RateRefillPerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
		Key:               mw.SessionOrIP(d.TrustProxy),
	})).Post("/bookmarks/fetch-metadata", handlers.FetchMetadata(d))
}
