package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cardbinder/cardbinder/pkg/collection"
	"github.com/cardbinder/cardbinder/pkg/common"
	"github.com/cardbinder/cardbinder/pkg/common/jsoncompat"
)

const listCacheTTL = time.Minute

// cached serves a list endpoint from the cache when one is configured.
// Keys include the store generation so every mutation invalidates all
// cached pages at once.
func (ws *WebServer) cached(fn func(r *http.Request) (*ListResponse, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			common.RespondToOptions(w, r)
			return
		}
		noListRequests.Inc()
		if r.URL.Query().Get("query") != "" {
			noSearches.Inc()
		}

		key := ""
		if ws.Cache != nil {
			key = fmt.Sprintf("list:%d:%s", ws.Store.Generation(), r.URL.RequestURI())
			if data, ok := ws.Cache.Get(key); ok {
				noCacheHits.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.Write(data)
				return
			}
		}

		response, err := fn(r)
		if err != nil {
			log.Printf("Error handling list request %s: %v", r.URL.Path, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, err := jsoncompat.Marshal(response)
		if err != nil {
			log.Printf("Error marshaling list response: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if ws.Cache != nil {
			if err := ws.Cache.Set(key, data, listCacheTTL); err != nil {
				log.Printf("Failed to cache list response: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

func (ws *WebServer) HandlePackList(r *http.Request) (*ListResponse, error) {
	sr, err := GetListRequest(r, packListDefaults)
	if err != nil {
		return nil, err
	}
	return respondList(sr, ws.Store.Packs(false), nil), nil
}

func (ws *WebServer) HandleArchivedPackList(r *http.Request) (*ListResponse, error) {
	sr, err := GetListRequest(r, packListDefaults)
	if err != nil {
		return nil, err
	}
	return respondList(sr, ws.Store.Packs(true), nil), nil
}

func (ws *WebServer) HandleCardList(r *http.Request) (*ListResponse, error) {
	sr, err := GetListRequest(r, cardListDefaults)
	if err != nil {
		return nil, err
	}
	return respondList(sr, ws.Store.Cards(), collection.PoolAccessor(ws.Store.PackNumber)), nil
}

func (ws *WebServer) HandlePoolList(r *http.Request) (*ListResponse, error) {
	sr, err := GetListRequest(r, poolListDefaults)
	if err != nil {
		return nil, err
	}
	packId := r.PathValue("id")
	if _, ok := ws.Store.Pack(packId); !ok {
		return nil, fmt.Errorf("unknown pack %s", packId)
	}
	return respondList(sr, ws.Store.PackCards(packId), collection.PoolAccessor(ws.Store.PackNumber)), nil
}

func (ws *WebServer) HandleDeckList(r *http.Request) (*ListResponse, error) {
	sr, err := GetListRequest(r, deckListDefaults)
	if err != nil {
		return nil, err
	}
	return respondList(sr, ws.Store.Decks(), nil), nil
}

func (ws *WebServer) HandleDeckCardList(r *http.Request) (*ListResponse, error) {
	sr, err := GetListRequest(r, cardListDefaults)
	if err != nil {
		return nil, err
	}
	deckId := r.PathValue("id")
	if _, ok := ws.Store.Deck(deckId); !ok {
		return nil, fmt.Errorf("unknown deck %s", deckId)
	}
	return respondList(sr, ws.Store.DeckCards(deckId), collection.PoolAccessor(ws.Store.PackNumber)), nil
}

func (ws *WebServer) HandleOwnedList(r *http.Request) (*ListResponse, error) {
	sr, err := GetListRequest(r, ownedListDefault)
	if err != nil {
		return nil, err
	}
	return respondList(sr, ws.Store.Owned(), nil), nil
}

func (ws *WebServer) HandleUpsertPack(w http.ResponseWriter, r *http.Request) (any, error) {
	pack := &collection.Pack{}
	if err := decodeBody(r, pack); err != nil {
		return nil, err
	}
	if pack.Name == "" {
		return nil, fmt.Errorf("pack name is required")
	}
	noWrites.Inc()
	return ws.Store.UpsertPack(pack), nil
}

func (ws *WebServer) HandleDeletePack(w http.ResponseWriter, r *http.Request) (any, error) {
	id := r.PathValue("id")
	if !ws.Store.DeletePack(id) {
		return nil, fmt.Errorf("unknown pack %s", id)
	}
	noWrites.Inc()
	return nil, nil
}

func (ws *WebServer) HandleArchivePack(w http.ResponseWriter, r *http.Request) (any, error) {
	return ws.setArchived(r, true)
}

func (ws *WebServer) HandleRestorePack(w http.ResponseWriter, r *http.Request) (any, error) {
	return ws.setArchived(r, false)
}

func (ws *WebServer) setArchived(r *http.Request, archived bool) (any, error) {
	id := r.PathValue("id")
	if !ws.Store.SetPackArchived(id, archived) {
		return nil, fmt.Errorf("unknown pack %s", id)
	}
	noWrites.Inc()
	pack, _ := ws.Store.Pack(id)
	return pack, nil
}

func (ws *WebServer) HandleUpsertCards(w http.ResponseWriter, r *http.Request) (any, error) {
	packId := r.PathValue("id")
	if _, ok := ws.Store.Pack(packId); !ok {
		return nil, fmt.Errorf("unknown pack %s", packId)
	}
	cards := []*collection.Card{}
	if err := decodeBody(r, &cards); err != nil {
		return nil, err
	}
	noWrites.Inc()
	return ws.Store.UpsertCards(packId, cards), nil
}

func (ws *WebServer) HandleDeleteCard(w http.ResponseWriter, r *http.Request) (any, error) {
	id := r.PathValue("id")
	if !ws.Store.DeleteCard(id) {
		return nil, fmt.Errorf("unknown card %s", id)
	}
	noWrites.Inc()
	return nil, nil
}

func (ws *WebServer) HandleUpsertDeck(w http.ResponseWriter, r *http.Request) (any, error) {
	deck := &collection.Deck{}
	if err := decodeBody(r, deck); err != nil {
		return nil, err
	}
	if deck.Name == "" {
		return nil, fmt.Errorf("deck name is required")
	}
	noWrites.Inc()
	return ws.Store.UpsertDeck(deck), nil
}

func (ws *WebServer) HandleDeleteDeck(w http.ResponseWriter, r *http.Request) (any, error) {
	id := r.PathValue("id")
	if !ws.Store.DeleteDeck(id) {
		return nil, fmt.Errorf("unknown deck %s", id)
	}
	noWrites.Inc()
	return nil, nil
}

type ownedAdjustment struct {
	CardId string `json:"cardId"`
	Delta  int    `json:"delta"`
}

func (ws *WebServer) HandleAdjustOwned(w http.ResponseWriter, r *http.Request) (any, error) {
	adj := ownedAdjustment{}
	if err := decodeBody(r, &adj); err != nil {
		return nil, err
	}
	if adj.CardId == "" {
		return nil, fmt.Errorf("cardId is required")
	}
	if _, ok := ws.Store.Card(adj.CardId); !ok {
		return nil, fmt.Errorf("unknown card %s", adj.CardId)
	}
	noWrites.Inc()
	owned := ws.Store.AdjustOwned(adj.CardId, adj.Delta)
	if owned == nil {
		return map[string]any{"cardId": adj.CardId, "count": 0}, nil
	}
	return owned, nil
}

func (ws *WebServer) HandleSave(w http.ResponseWriter, r *http.Request) (any, error) {
	if ws.Db == nil {
		return nil, fmt.Errorf("no storage configured")
	}
	if err := ws.Db.SaveCollection(ws.Store); err != nil {
		return nil, err
	}
	return map[string]string{"status": "saved"}, nil
}

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("empty request body")
	}
	return jsoncompat.Unmarshal(data, out)
}

// SortableFields lists the fields the UI can offer as sort choices per
// view. Served on /api/fields so input surfaces stay in sync with the
// accessors.
var SortableFields = map[string][]string{
	"packs": {"number", "name", "cardsPerPack"},
	"cards": {"number", "name", "rarity", "cost", "position"},
	"decks": {"number", "name", "cardCount"},
	"owned": {"cardId", "count", "obtained"},
}

func (ws *WebServer) HandleFields(w http.ResponseWriter, r *http.Request) (any, error) {
	return SortableFields, nil
}
