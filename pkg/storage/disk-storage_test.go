package storage

import (
	"os"
	"testing"

	"github.com/cardbinder/cardbinder/pkg/collection"
)

func TestCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db := NewDiskStorage(dir)

	s := collection.NewStore()
	p := s.UpsertPack(&collection.Pack{Name: "Base Set"})
	s.UpsertCards(p.Id, []*collection.Card{{Name: "Charizard", Rarity: "Rare"}})

	if err := db.SaveCollection(s); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := collection.NewStore()
	if err := db.LoadCollection(restored); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(restored.Packs(false)) != 1 || len(restored.Cards()) != 1 {
		t.Error("snapshot lost entities")
	}

	// no stray tmp file left behind
	_, tmp := db.GetFileName("collection.jz")
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Errorf("tmp file still present: %v", err)
	}
}

func TestLoadMissingSnapshotIsNotAnError(t *testing.T) {
	db := NewDiskStorage(t.TempDir())
	s := collection.NewStore()
	if err := db.LoadCollection(s); err != nil {
		t.Errorf("missing snapshot returned %v", err)
	}
}
