// Package server exposes the collection over HTTP: list views driven by
// the listing engine on the read side and an authenticated write surface
// for pack, card, deck and collection mutations.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cardbinder/cardbinder/pkg/collection"
	"github.com/cardbinder/cardbinder/pkg/common"
	"github.com/cardbinder/cardbinder/pkg/listing"
	"github.com/cardbinder/cardbinder/pkg/storage"
)

var (
	noListRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cardbinder_list_requests_total",
		Help: "The total number of processed list view requests",
	})
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cardbinder_searches_total",
		Help: "The total number of list requests carrying a search term",
	})
	noWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cardbinder_writes_total",
		Help: "The total number of collection mutations via the API",
	})
	noCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cardbinder_list_cache_hits_total",
		Help: "The total number of list responses served from cache",
	})
)

// Per-view default sort configurations, matching what the list views
// start from and reset to.
var (
	packListDefaults = listing.Config{DefaultSortField: "number", DefaultSortOrder: listing.OrderAsc}
	cardListDefaults = listing.Config{DefaultSortField: "number", DefaultSortOrder: listing.OrderAsc}
	poolListDefaults = listing.Config{DefaultSortField: "position", DefaultSortOrder: listing.OrderAsc}
	deckListDefaults = listing.Config{DefaultSortField: "number", DefaultSortOrder: listing.OrderAsc}
	ownedListDefault = listing.Config{DefaultSortField: "obtained", DefaultSortOrder: listing.OrderDesc}
)

type WebServer struct {
	Store *collection.Store
	Db    *storage.DiskStorage
	Cache *Cache
	Auth  AuthHandler
}

// Handler builds the full route table.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/packs", ws.cached(ws.HandlePackList))
	mux.HandleFunc("GET /api/packs/archived", ws.cached(ws.HandleArchivedPackList))
	mux.HandleFunc("GET /api/cards", ws.cached(ws.HandleCardList))
	mux.HandleFunc("GET /api/packs/{id}/cards", ws.cached(ws.HandlePoolList))
	mux.HandleFunc("GET /api/decks", ws.cached(ws.HandleDeckList))
	mux.HandleFunc("GET /api/decks/{id}/cards", ws.cached(ws.HandleDeckCardList))
	mux.HandleFunc("GET /api/collection", ws.cached(ws.HandleOwnedList))
	mux.HandleFunc("GET /api/fields", common.JsonHandler(ws.HandleFields))

	mux.HandleFunc("POST /api/auth/login", ws.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", ws.Auth.Logout)
	mux.HandleFunc("GET /api/auth/user", ws.Auth.User)

	admin := ws.Auth.Middleware
	mux.HandleFunc("POST /api/admin/packs", admin(common.JsonHandler(ws.HandleUpsertPack)))
	mux.HandleFunc("DELETE /api/admin/packs/{id}", admin(common.JsonHandler(ws.HandleDeletePack)))
	mux.HandleFunc("POST /api/admin/packs/{id}/archive", admin(common.JsonHandler(ws.HandleArchivePack)))
	mux.HandleFunc("POST /api/admin/packs/{id}/restore", admin(common.JsonHandler(ws.HandleRestorePack)))
	mux.HandleFunc("POST /api/admin/packs/{id}/cards", admin(common.JsonHandler(ws.HandleUpsertCards)))
	mux.HandleFunc("DELETE /api/admin/cards/{id}", admin(common.JsonHandler(ws.HandleDeleteCard)))
	mux.HandleFunc("POST /api/admin/decks", admin(common.JsonHandler(ws.HandleUpsertDeck)))
	mux.HandleFunc("DELETE /api/admin/decks/{id}", admin(common.JsonHandler(ws.HandleDeleteDeck)))
	mux.HandleFunc("POST /api/admin/collection", admin(common.JsonHandler(ws.HandleAdjustOwned)))
	mux.HandleFunc("POST /api/admin/save", admin(common.JsonHandler(ws.HandleSave)))

	return mux
}
