package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/store"
)

type ctxKey struct{}

// BookmarkFromContext returns the bookmark loaded by ResolveBookmark.
func BookmarkFromContext(ctx context.Context) (domain.Bookmark, bool) {
	b, ok := ctx.Value(ctxKey{}).(domain.Bookmark)
	return b, ok
}

// ResolveBookmark loads the bookmark named by the {id} path parameter and
// hands it to the next handler. Unknown ids stop the chain with a 404.
func ResolveBookmark(d deps.Deps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")

			b, err := d.Store.Get(r.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				d.Logger.Warn("bookmark not found", logger.String("id", id))
				WriteError(w, http.StatusNotFound, MsgNotFound)
				return
			}
			if err != nil {
				d.Logger.Error("failed to load bookmark", logger.String("id", id), logger.Error(err))
				WriteError(w, http.StatusInternalServerError, MsgServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, b)))
		})
	}
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bs, err := d.Store.List(r.Context())
		if err != nil {
			d.Logger.Error("failed to list bookmarks", logger.Error(err))
			WriteError(w, http.StatusInternalServerError, MsgServerError)
			return
		}
		WriteJSON(w, http.StatusOK, domain.SerializeAll(bs))
	}
}

func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, d.MaxBodyBytes)
		}

		var req domain.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			d.Logger.Warn("invalid request body", logger.Error(err))
			WriteError(w, http.StatusBadRequest, MsgInvalidBody)
			return
		}

		nb, err := req.Validate()
		if err != nil {
			d.Logger.Warn("bookmark rejected", logger.String("reason", err.Error()))
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		b, err := d.Store.Insert(r.Context(), nb)
		if errors.Is(err, store.ErrConstraint) {
			d.Logger.Warn("bookmark rejected by storage", logger.Error(err))
			WriteError(w, http.StatusBadRequest, MsgInvalidBody)
			return
		}
		if err != nil {
			d.Logger.Error("failed to create bookmark", logger.Error(err))
			WriteError(w, http.StatusInternalServerError, MsgServerError)
			return
		}

		d.Logger.Info("bookmark created", logger.String("id", b.ID))
		w.Header().Set("Location", d.BasePath+"/bookmarks/"+b.ID)
		WriteJSON(w, http.StatusCreated, domain.Serialize(b))
	}
}

// GetBookmark must run behind ResolveBookmark.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := BookmarkFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusNotFound, MsgNotFound)
			return
		}
		WriteJSON(w, http.StatusOK, domain.Serialize(b))
	}
}

// DeleteBookmark must run behind ResolveBookmark.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := BookmarkFromContext(r.Context())
		if !ok {
			WriteError(w, http.StatusNotFound, MsgNotFound)
			return
		}

		removed, err := d.Store.Delete(r.Context(), b.ID)
		if err != nil {
			d.Logger.Error("failed to delete bookmark", logger.String("id", b.ID), logger.Error(err))
			WriteError(w, http.StatusInternalServerError, MsgServerError)
			return
		}
		// deleted concurrently between resolve and delete
		if !removed {
			d.Logger.Warn("bookmark not found", logger.String("id", b.ID))
			WriteError(w, http.StatusNotFound, MsgNotFound)
			return
		}

		d.Logger.Info("bookmark deleted", logger.String("id", b.ID))
		w.WriteHeader(http.StatusNoContent)
	}
}
