package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/drivemark/internal/docstore"
	"github.com/MrSnakeDoc/drivemark/internal/domain"
	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
	"github.com/MrSnakeDoc/drivemark/internal/metadata"
	"github.com/MrSnakeDoc/drivemark/internal/sources/homepage"
)

const maxImportSize = 4 << 20

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		return d.Store.ListBookmarks(r.Context(), acct)
	})
}

func GetBookmark(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		return d.Store.GetBookmark(r.Context(), acct, chi.URLParam(r, "id"))
	})
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusCreated, func(r *http.Request, acct *docstore.Account) (any, error) {
		var b domain.Bookmark
		if err := decodeValid(d, r, &b); err != nil {
			return nil, err
		}
		return d.Store.CreateBookmark(r.Context(), acct, &b)
	})
}

func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		var b domain.Bookmark
		if err := decodeValid(d, r, &b); err != nil {
			return nil, err
		}
		return d.Store.UpdateBookmark(r.Context(), acct, chi.URLParam(r, "id"), &b)
	})
}

func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusNoContent, func(r *http.Request, acct *docstore.Account) (any, error) {
		return nil, d.Store.DeleteBookmark(r.Context(), acct, chi.URLParam(r, "id"))
	})
}

// SearchBookmarks requires the q parameter; an empty value matches all.
// Hits come back in document order unless sort=relevance.
func SearchBookmarks(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		query := r.URL.Query()
		values, ok := query["q"]
		if !ok {
			return nil, apperr.Validation("missing query parameter q")
		}
		sortBy := query.Get("sort")
		if sortBy != "" && sortBy != "relevance" {
			return nil, apperr.Validation("unknown sort " + sortBy)
		}

		hits, err := d.Store.SearchBookmarks(r.Context(), acct, values[0])
		if err != nil || sortBy == "" || values[0] == "" {
			return hits, err
		}
		return domain.RankBookmarks(values[0], hits), nil
	})
}

func BookmarksByFolder(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		return d.Store.BookmarksByFolder(r.Context(), acct, chi.URLParam(r, "folderId"))
	})
}

func BookmarksByTag(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		return d.Store.BookmarksByTag(r.Context(), acct, chi.URLParam(r, "tag"))
	})
}

type fetchMetadataRequest struct {
	URL string `json:"url"`
}

// FetchMetadata answers with a preview of the page. Extraction failures
// produce a degraded preview, never an error.
func FetchMetadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fetchMetadataRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, d.Logger, err)
			return
		}
		url := strings.TrimSpace(req.URL)
		if url == "" {
			writeError(w, r, d.Logger, apperr.Validation("url is required"))
			return
		}

		if d.MetadataCache != nil {
			md, ok, err := d.MetadataCache.CachedMetadata(r.Context(), url)
			if err != nil {
				d.Logger.Warn("metadata cache read failed", logger.Error(err))
			}
			if ok {
				writeJSON(w, http.StatusOK, md)
				return
			}
		}

		md := d.Metadata.Fetch(r.Context(), url)

		if d.MetadataCache != nil && md.Description != metadata.FailedDescription {
			if err := d.MetadataCache.CacheMetadata(r.Context(), url, md, d.MetadataCacheTTL); err != nil {
				d.Logger.Warn("metadata cache write failed", logger.Error(err))
			}
		}
		writeJSON(w, http.StatusOK, md)
	}
}

// ImportBookmarks merges a Homepage bookmarks.yaml (or services.yaml
// with ?format=services) into the document.
func ImportBookmarks(d deps.Deps) http.HandlerFunc {
	return withAccount(d, http.StatusOK, func(r *http.Request, acct *docstore.Account) (any, error) {
		format, err := homepage.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
		if err != nil {
			return nil, apperr.Validation("unreadable body")
		}
		items, err := homepage.Parse(data, format)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		return d.Store.Import(r.Context(), acct, items)
	})
}
