package collection

import (
	"sync"
	"testing"

	"github.com/cardbinder/cardbinder/pkg/listing"
)

func intPtr(n int) *int { return &n }

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	base := s.UpsertPack(&Pack{Name: "Base Set", Number: intPtr(1), CardsPerPack: 11})
	jungle := s.UpsertPack(&Pack{Name: "Jungle", Number: intPtr(2), CardsPerPack: 11})
	s.UpsertCards(base.Id, []*Card{
		{Name: "Bulbasaur", Number: intPtr(1), Rarity: "Common", Cost: intPtr(1)},
		{Name: "Charizard", Number: intPtr(4), Rarity: "Rare", Cost: intPtr(5)},
	})
	s.UpsertCards(jungle.Id, []*Card{
		{Name: "Snorlax", Number: intPtr(1), Rarity: "Rare", Cost: intPtr(4)},
	})
	return s
}

func TestUpsertPackMintsIdAndTimestamps(t *testing.T) {
	s := NewStore()
	p := s.UpsertPack(&Pack{Name: "Fossil"})
	if p.Id == "" {
		t.Fatal("expected a minted id")
	}
	if p.Created == 0 || p.Updated == 0 {
		t.Error("timestamps not set")
	}
	created := p.Created
	again := s.UpsertPack(&Pack{Id: p.Id, Name: "Fossil v2"})
	if again.Created != created {
		t.Error("update must keep the original created timestamp")
	}
}

func TestArchiveSplitsPackViews(t *testing.T) {
	s := seedStore(t)
	packs := s.Packs(false)
	if len(packs) != 2 {
		t.Fatalf("active packs = %d, want 2", len(packs))
	}
	if !s.SetPackArchived(packs[0].Id, true) {
		t.Fatal("archive failed")
	}
	if got := len(s.Packs(false)); got != 1 {
		t.Errorf("active packs after archive = %d", got)
	}
	if got := len(s.Packs(true)); got != 1 {
		t.Errorf("archived packs = %d", got)
	}
	if !s.SetPackArchived(packs[0].Id, false) {
		t.Fatal("restore failed")
	}
	if got := len(s.Packs(true)); got != 0 {
		t.Errorf("archived packs after restore = %d", got)
	}
}

func TestDeletePackCascadesToCards(t *testing.T) {
	s := seedStore(t)
	var baseId string
	for _, p := range s.Packs(false) {
		if p.Name == "Base Set" {
			baseId = p.Id
		}
	}
	if !s.DeletePack(baseId) {
		t.Fatal("delete failed")
	}
	for _, c := range s.Cards() {
		if c.PackId == baseId {
			t.Errorf("orphan card %q left behind", c.Name)
		}
	}
	if len(s.Cards()) != 1 {
		t.Errorf("cards after cascade = %d, want 1", len(s.Cards()))
	}
}

func TestListMethodsReturnFreshSlices(t *testing.T) {
	s := seedStore(t)
	a := s.Cards()
	b := s.Cards()
	if &a[0] == &b[0] {
		t.Error("Cards() handed out a shared backing array")
	}
}

func TestAdjustOwnedClampsAtZero(t *testing.T) {
	s := seedStore(t)
	cardId := s.Cards()[0].Id
	o := s.AdjustOwned(cardId, 3)
	if o == nil || o.Count != 3 {
		t.Fatalf("owned = %+v", o)
	}
	if got := s.AdjustOwned(cardId, -5); got != nil {
		t.Errorf("negative adjust left entry %+v", got)
	}
	if len(s.Owned()) != 0 {
		t.Error("zeroed entry still listed")
	}
}

func TestMutationsNeverWriteHandedOutEntities(t *testing.T) {
	s := seedStore(t)
	pack := s.Packs(false)[0]
	if !s.SetPackArchived(pack.Id, true) {
		t.Fatal("archive failed")
	}
	if pack.Archived {
		t.Error("archive wrote through a previously returned pack")
	}

	cardId := s.Cards()[0].Id
	s.AdjustOwned(cardId, 1)
	owned := s.Owned()[0]
	s.AdjustOwned(cardId, 1)
	if owned.Count != 1 {
		t.Errorf("adjust wrote through a previously returned entry, count = %d", owned.Count)
	}
}

func TestConcurrentReadsDuringMutation(t *testing.T) {
	s := seedStore(t)
	packId := s.Packs(false)[0].Id
	cardId := s.Cards()[0].Id

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 200 {
			s.SetPackArchived(packId, i%2 == 0)
			s.AdjustOwned(cardId, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			for _, p := range s.Packs(false) {
				_ = p.Archived
				_ = p.Updated
			}
			for _, o := range s.Owned() {
				_ = o.Count
			}
		}
	}()
	wg.Wait()
}

func TestDeckCardsSkipMissing(t *testing.T) {
	s := seedStore(t)
	cards := s.Cards()
	d := s.UpsertDeck(&Deck{Name: "Starter", Entries: []DeckEntry{
		{CardId: cards[0].Id, Count: 2},
		{CardId: "gone", Count: 1},
	}})
	if d.CardCount() != 3 {
		t.Errorf("card count = %d, want 3", d.CardCount())
	}
	resolved := s.DeckCards(d.Id)
	if len(resolved) != 1 || resolved[0].Id != cards[0].Id {
		t.Errorf("resolved %d cards", len(resolved))
	}
}

func TestGenerationBumpsOnMutation(t *testing.T) {
	s := NewStore()
	g := s.Generation()
	s.UpsertPack(&Pack{Name: "Fossil"})
	if s.Generation() == g {
		t.Error("generation did not move")
	}
}

func TestChangeHookFires(t *testing.T) {
	s := NewStore()
	var got []Change
	s.OnChange(func(c Change) { got = append(got, c) })
	p := s.UpsertPack(&Pack{Name: "Fossil"})
	s.DeletePack(p.Id)
	if len(got) != 2 || got[0].Kind != PackChanged || got[1].Kind != PackDeleted {
		t.Errorf("changes = %+v", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := seedStore(t)
	s.UpsertDeck(&Deck{Name: "Starter"})
	s.AdjustOwned(s.Cards()[0].Id, 2)

	snap := s.Snapshot()
	restored := NewStore()
	restored.Restore(snap)

	if len(restored.Packs(false)) != 2 || len(restored.Cards()) != 3 {
		t.Error("packs or cards lost in round trip")
	}
	if len(restored.Decks()) != 1 || len(restored.Owned()) != 1 {
		t.Error("decks or owned lost in round trip")
	}
}

func TestPoolAccessorOrdersAcrossPacks(t *testing.T) {
	s := seedStore(t)
	pool := s.Cards()
	result := listing.Process(pool, listing.Query{
		SortField: "position",
		SortOrder: listing.OrderAsc,
	}, PoolAccessor(s.PackNumber))

	want := []string{"Bulbasaur", "Charizard", "Snorlax"}
	for i, c := range result {
		if c.Name != want[i] {
			t.Errorf("position %d = %q, want %q", i, c.Name, want[i])
		}
	}
}
