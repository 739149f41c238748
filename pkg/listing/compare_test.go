package listing

import "testing"

func compareCards(t *testing.T, field string, order Order) func(a, b *testCard) int {
	t.Helper()
	if field == SortFieldNumber {
		return NumberComparator(field, order, DefaultAccessor[*testCard])
	}
	return StringComparator(field, order, DefaultAccessor[*testCard])
}

func TestNumberComparatorNilHandling(t *testing.T) {
	withNum := &testCard{Name: "a", Number: num(3)}
	without := &testCard{Name: "b"}

	for _, order := range []Order{OrderAsc, OrderDesc} {
		cmp := compareCards(t, "number", order)
		if got := cmp(without, withNum); got <= 0 {
			t.Errorf("order %s: nil vs value = %d, want > 0", order, got)
		}
		if got := cmp(withNum, without); got >= 0 {
			t.Errorf("order %s: value vs nil = %d, want < 0", order, got)
		}
		if got := cmp(without, without); got != 0 {
			t.Errorf("order %s: nil vs nil = %d, want 0", order, got)
		}
	}
}

func TestNumberComparatorDirection(t *testing.T) {
	low := &testCard{Number: num(1)}
	high := &testCard{Number: num(9)}

	asc := compareCards(t, "number", OrderAsc)
	if asc(low, high) >= 0 {
		t.Error("asc: low should come before high")
	}
	desc := compareCards(t, "number", OrderDesc)
	if desc(low, high) <= 0 {
		t.Error("desc: high should come before low")
	}
}

func TestStringComparatorCollation(t *testing.T) {
	cmp := compareCards(t, "name", OrderAsc)

	if cmp(&testCard{Name: "alpha"}, &testCard{Name: "Beta"}) >= 0 {
		t.Error("alpha should collate before Beta regardless of case")
	}
	if cmp(&testCard{Name: "Alpha"}, &testCard{Name: "alpha"}) != 0 {
		t.Error("case variants should collate equal")
	}
}

func TestStringComparatorNonLatin(t *testing.T) {
	cmp := compareCards(t, "name", OrderAsc)
	// Must not panic and must stay deterministic on mixed scripts.
	a := &testCard{Name: "ピカチュウ"}
	b := &testCard{Name: "リザードン"}
	first := cmp(a, b)
	for range 3 {
		if cmp(a, b) != first {
			t.Fatal("comparison is not deterministic")
		}
	}
	if first != -cmp(b, a) {
		t.Error("comparison is not antisymmetric")
	}
}

func TestStringComparatorMissingValuesAsEmpty(t *testing.T) {
	cmp := compareCards(t, "rarity", OrderAsc)
	none := &testCard{Name: "a"}
	rare := &testCard{Name: "b", Rarity: "Rare"}
	if cmp(none, rare) >= 0 {
		t.Error("empty value should collate before a real one")
	}
}
