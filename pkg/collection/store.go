package collection

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ChangeKind string

const (
	PackChanged       ChangeKind = "pack_changed"
	PackDeleted       ChangeKind = "pack_deleted"
	CardChanged       ChangeKind = "card_changed"
	CardDeleted       ChangeKind = "card_deleted"
	DeckChanged       ChangeKind = "deck_changed"
	DeckDeleted       ChangeKind = "deck_deleted"
	CollectionChanged ChangeKind = "collection_changed"
)

// Change describes a single store mutation, delivered to the change hook
// after the mutation is committed.
type Change struct {
	Kind ChangeKind `json:"kind"`
	Id   string     `json:"id"`
}

// Store is the in-memory collection of packs, cards, decks and owned
// cards. List methods hand out fresh slices so callers can feed them to
// the listing engine without holding the store lock.
type Store struct {
	mu         sync.RWMutex
	packs      map[string]*Pack
	cards      map[string]*Card
	decks      map[string]*Deck
	owned      map[string]*OwnedCard
	generation uint64
	onChange   func(Change)
}

func NewStore() *Store {
	return &Store{
		packs: make(map[string]*Pack),
		cards: make(map[string]*Card),
		decks: make(map[string]*Deck),
		owned: make(map[string]*OwnedCard),
	}
}

// OnChange registers the single change hook. Must be called before the
// store is shared.
func (s *Store) OnChange(fn func(Change)) {
	s.onChange = fn
}

func (s *Store) notify(kind ChangeKind, id string) {
	s.generation++
	if s.onChange != nil {
		s.onChange(Change{Kind: kind, Id: id})
	}
}

// Generation increases on every mutation. Used to key cached list
// responses so they expire as soon as the data moves.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Store) UpsertPack(p *Pack) *Pack {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().Unix()
	if p.Id == "" {
		p.Id = uuid.NewString()
		p.Created = now
	} else if existing, ok := s.packs[p.Id]; ok {
		p.Created = existing.Created
	}
	p.Updated = now
	s.packs[p.Id] = p
	s.notify(PackChanged, p.Id)
	return p
}

func (s *Store) Pack(id string) (*Pack, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packs[id]
	return p, ok
}

// DeletePack removes a pack and cascades to its card pool.
func (s *Store) DeletePack(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.packs[id]; !ok {
		return false
	}
	delete(s.packs, id)
	for cardId, c := range s.cards {
		if c.PackId == id {
			delete(s.cards, cardId)
		}
	}
	s.notify(PackDeleted, id)
	return true
}

// SetPackArchived moves a pack between the active and archive views.
// The stored pack is replaced by a modified copy; pointers previously
// handed out by Packs stay untouched for concurrent readers.
func (s *Store) SetPackArchived(id string, archived bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.packs[id]
	if !ok {
		return false
	}
	if p.Archived != archived {
		updated := *p
		updated.Archived = archived
		updated.Updated = time.Now().Unix()
		s.packs[id] = &updated
		s.notify(PackChanged, id)
	}
	return true
}

// Packs returns the packs on one side of the archive split.
func (s *Store) Packs(archived bool) []*Pack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Pack, 0, len(s.packs))
	for _, p := range s.packs {
		if p.Archived == archived {
			out = append(out, p)
		}
	}
	sortById(out, func(p *Pack) string { return p.Id })
	return out
}

// PackNumber resolves a pack's sequence number for composite card
// ordering; nil when the pack is unknown or unnumbered.
func (s *Store) PackNumber(packId string) *int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.packs[packId]; ok {
		return p.Number
	}
	return nil
}

func (s *Store) UpsertCard(c *Card) *Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.Id == "" {
		c.Id = uuid.NewString()
	}
	s.cards[c.Id] = c
	s.notify(CardChanged, c.Id)
	return c
}

// UpsertCards adds a batch of cards to one pack in a single lock scope.
func (s *Store) UpsertCards(packId string, cards []*Card) []*Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cards {
		c.PackId = packId
		if c.Id == "" {
			c.Id = uuid.NewString()
		}
		s.cards[c.Id] = c
	}
	s.notify(CardChanged, packId)
	return cards
}

func (s *Store) Card(id string) (*Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	return c, ok
}

func (s *Store) DeleteCard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return false
	}
	delete(s.cards, id)
	delete(s.owned, id)
	s.notify(CardDeleted, id)
	return true
}

func (s *Store) Cards() []*Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	sortById(out, func(c *Card) string { return c.Id })
	return out
}

// PackCards returns the card pool of one pack.
func (s *Store) PackCards(packId string) []*Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Card, 0)
	for _, c := range s.cards {
		if c.PackId == packId {
			out = append(out, c)
		}
	}
	sortById(out, func(c *Card) string { return c.Id })
	return out
}

func (s *Store) UpsertDeck(d *Deck) *Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().Unix()
	if d.Id == "" {
		d.Id = uuid.NewString()
		d.Created = now
	} else if existing, ok := s.decks[d.Id]; ok {
		d.Created = existing.Created
	}
	d.Updated = now
	s.decks[d.Id] = d
	s.notify(DeckChanged, d.Id)
	return d
}

func (s *Store) Deck(id string) (*Deck, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.decks[id]
	return d, ok
}

func (s *Store) DeleteDeck(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[id]; !ok {
		return false
	}
	delete(s.decks, id)
	s.notify(DeckDeleted, id)
	return true
}

func (s *Store) Decks() []*Deck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Deck, 0, len(s.decks))
	for _, d := range s.decks {
		out = append(out, d)
	}
	sortById(out, func(d *Deck) string { return d.Id })
	return out
}

// DeckCards resolves a deck's entries to the cards that still exist.
func (s *Store) DeckCards(deckId string) []*Card {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.decks[deckId]
	if !ok {
		return []*Card{}
	}
	out := make([]*Card, 0, len(d.Entries))
	for _, e := range d.Entries {
		if c, ok := s.cards[e.CardId]; ok {
			out = append(out, c)
		}
	}
	return out
}

// AdjustOwned adds delta copies of a card to the owned collection. The
// count never goes below zero; reaching zero removes the entry. As with
// SetPackArchived, the entry is replaced by a modified copy so pointers
// already handed out by Owned are never written to.
func (s *Store) AdjustOwned(cardId string, delta int) *OwnedCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := OwnedCard{CardId: cardId, Obtained: time.Now().Unix()}
	if o, ok := s.owned[cardId]; ok {
		updated = *o
	}
	updated.Count += delta
	if updated.Count <= 0 {
		delete(s.owned, cardId)
		s.notify(CollectionChanged, cardId)
		return nil
	}
	s.owned[cardId] = &updated
	s.notify(CollectionChanged, cardId)
	return &updated
}

func (s *Store) Owned() []*OwnedCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*OwnedCard, 0, len(s.owned))
	for _, o := range s.owned {
		out = append(out, o)
	}
	sortById(out, func(o *OwnedCard) string { return o.CardId })
	return out
}

func sortById[T any](items []T, id func(T) string) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

// Snapshot is the serializable form of the whole store.
type Snapshot struct {
	Packs []*Pack      `json:"packs"`
	Cards []*Card      `json:"cards"`
	Decks []*Deck      `json:"decks"`
	Owned []*OwnedCard `json:"owned"`
}

func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := &Snapshot{
		Packs: make([]*Pack, 0, len(s.packs)),
		Cards: make([]*Card, 0, len(s.cards)),
		Decks: make([]*Deck, 0, len(s.decks)),
		Owned: make([]*OwnedCard, 0, len(s.owned)),
	}
	for _, p := range s.packs {
		snap.Packs = append(snap.Packs, p)
	}
	for _, c := range s.cards {
		snap.Cards = append(snap.Cards, c)
	}
	for _, d := range s.decks {
		snap.Decks = append(snap.Decks, d)
	}
	for _, o := range s.owned {
		snap.Owned = append(snap.Owned, o)
	}
	return snap
}

// Restore replaces the store contents from a snapshot without firing
// change notifications.
func (s *Store) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packs = make(map[string]*Pack, len(snap.Packs))
	s.cards = make(map[string]*Card, len(snap.Cards))
	s.decks = make(map[string]*Deck, len(snap.Decks))
	s.owned = make(map[string]*OwnedCard, len(snap.Owned))
	for _, p := range snap.Packs {
		s.packs[p.Id] = p
	}
	for _, c := range snap.Cards {
		s.cards[c.Id] = c
	}
	for _, d := range snap.Decks {
		s.decks[d.Id] = d
	}
	for _, o := range snap.Owned {
		s.owned[o.CardId] = o
	}
	s.generation++
}
