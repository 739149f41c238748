package listing

import (
	"reflect"
	"testing"
)

type testCard struct {
	Id     string
	Name   string
	Number *int
	Rarity string
	Cost   *int
}

func (c *testCard) Field(name string) any {
	switch name {
	case "id", "cardId":
		return c.Id
	case "name":
		return c.Name
	case "number":
		if c.Number == nil {
			return nil
		}
		return *c.Number
	case "rarity":
		return c.Rarity
	case "cost":
		if c.Cost == nil {
			return nil
		}
		return *c.Cost
	}
	return nil
}

func num(n int) *int { return &n }

func names(items []*testCard) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.Name
	}
	return out
}

func TestSortByNumberKeepsNilLast(t *testing.T) {
	cards := []*testCard{
		{Name: "Charizard", Number: num(4)},
		{Name: "Bulbasaur", Number: num(1)},
		{Name: "Mewtwo"},
	}

	asc := Process(cards, Query{SortField: "number", SortOrder: OrderAsc}, nil)
	if got, want := names(asc), []string{"Bulbasaur", "Charizard", "Mewtwo"}; !reflect.DeepEqual(got, want) {
		t.Errorf("asc order = %v, want %v", got, want)
	}

	desc := Process(cards, Query{SortField: "number", SortOrder: OrderDesc}, nil)
	if got, want := names(desc), []string{"Charizard", "Bulbasaur", "Mewtwo"}; !reflect.DeepEqual(got, want) {
		t.Errorf("desc order = %v, want %v", got, want)
	}
}

func TestNilNumbersAlwaysTrailNumbered(t *testing.T) {
	cards := []*testCard{
		{Name: "a"},
		{Name: "b", Number: num(7)},
		{Name: "c"},
		{Name: "d", Number: num(2)},
		{Name: "e", Number: num(9)},
	}
	for _, order := range []Order{OrderAsc, OrderDesc} {
		result := Process(cards, Query{SortField: "number", SortOrder: order}, nil)
		seenNil := false
		for _, c := range result {
			if c.Number == nil {
				seenNil = true
			} else if seenNil {
				t.Errorf("order %s: numbered card %q after unnumbered one", order, c.Name)
			}
		}
	}
}

func TestSortByNameIsCaseInsensitive(t *testing.T) {
	cards := []*testCard{
		{Name: "Gamma"},
		{Name: "beta"},
		{Name: "Alpha"},
	}
	result := Process(cards, Query{SortField: "name", SortOrder: OrderAsc}, nil)
	if got, want := names(result), []string{"Alpha", "beta", "Gamma"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortIsIdempotent(t *testing.T) {
	cards := []*testCard{
		{Name: "b", Number: num(2)},
		{Name: "a", Number: num(1)},
		{Name: "c"},
	}
	q := Query{SortField: "number", SortOrder: OrderAsc}
	once := Process(cards, q, nil)
	twice := Process(once, q, nil)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("resorting changed position %d: %q vs %q", i, once[i].Name, twice[i].Name)
		}
	}
}

func TestDirectionSymmetry(t *testing.T) {
	cards := []*testCard{
		{Name: "Pikachu"},
		{Name: "Eevee"},
		{Name: "Snorlax"},
		{Name: "Ditto"},
	}
	asc := Process(cards, Query{SortField: "name", SortOrder: OrderAsc}, nil)
	desc := Process(cards, Query{SortField: "name", SortOrder: OrderDesc}, nil)
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("reversed asc != desc at %d: %q vs %q", i, asc[i].Name, desc[len(desc)-1-i].Name)
		}
	}
}

func TestSearchMatchesAnyCandidateField(t *testing.T) {
	cards := []*testCard{
		{Id: "c1", Name: "Charizard"},
		{Id: "c2", Name: "Squirtle"},
	}
	result := Process(cards, Query{Search: "char", SortField: "name"}, nil)
	if len(result) != 1 || result[0].Name != "Charizard" {
		t.Errorf("search 'char' = %v, want only Charizard", names(result))
	}

	byId := Process(cards, Query{Search: "C2", SortField: "name"}, nil)
	if len(byId) != 1 || byId[0].Id != "c2" {
		t.Errorf("search by id = %v, want only c2", names(byId))
	}
}

func TestEmptySearchIsNoOp(t *testing.T) {
	cards := []*testCard{
		{Name: "Alpha"},
		{Name: "Beta"},
	}
	result := Process(cards, Query{Search: "   "}, nil)
	if len(result) != len(cards) {
		t.Errorf("blank search dropped items: %d of %d kept", len(result), len(cards))
	}
}

func TestSearchNeverGrowsResult(t *testing.T) {
	cards := []*testCard{
		{Name: "Charizard"},
		{Name: "Charmander"},
		{Name: "Squirtle"},
	}
	for _, term := range []string{"", "c", "char", "charizard", "zzz"} {
		result := Process(cards, Query{Search: term}, nil)
		if len(result) > len(cards) {
			t.Errorf("search %q grew result to %d", term, len(result))
		}
	}
}

func TestFilterByRarity(t *testing.T) {
	cards := make([]*testCard, 0, 10)
	for i := range 10 {
		rarity := "Common"
		if i < 3 {
			rarity = "Rare"
		}
		cards = append(cards, &testCard{Name: "card", Number: num(i), Rarity: rarity})
	}
	result := Process(cards, Query{
		Filters:   []Condition{{Field: "rarity", Value: "Rare"}},
		SortField: "number",
	}, nil)
	if len(result) != 3 {
		t.Fatalf("got %d rare cards, want 3", len(result))
	}
	for _, c := range result {
		if c.Rarity != "Rare" {
			t.Errorf("kept card with rarity %q", c.Rarity)
		}
	}
}

func TestFilterConjunctionShrinksResult(t *testing.T) {
	cards := []*testCard{
		{Name: "a", Rarity: "Rare", Cost: num(2)},
		{Name: "b", Rarity: "Rare", Cost: num(5)},
		{Name: "c", Rarity: "Common", Cost: num(2)},
	}
	one := Process(cards, Query{Filters: []Condition{
		{Field: "rarity", Value: "Rare"},
	}}, nil)
	both := Process(cards, Query{Filters: []Condition{
		{Field: "rarity", Value: "Rare"},
		{Field: "cost", Value: float64(2)},
	}}, nil)
	if len(both) > len(one) {
		t.Fatalf("adding a condition grew the result: %d > %d", len(both), len(one))
	}
	for _, c := range both {
		found := false
		for _, o := range one {
			if o == c {
				found = true
			}
		}
		if !found {
			t.Errorf("card %q passed both conditions but not the first alone", c.Name)
		}
	}
}

func TestNumericRangeFilter(t *testing.T) {
	cards := make([]*testCard, 0, 5)
	for i := 1; i <= 5; i++ {
		cards = append(cards, &testCard{Name: "card", Number: num(i), Cost: num(i)})
	}
	result := Process(cards, Query{
		Filters:   []Condition{{Field: "cost", Value: "2-4"}},
		SortField: "number",
	}, nil)
	if len(result) != 3 {
		t.Fatalf("got %d cards, want 3", len(result))
	}
	for _, c := range result {
		if *c.Cost < 2 || *c.Cost > 4 {
			t.Errorf("cost %d outside 2-4", *c.Cost)
		}
	}
}

func TestMalformedRangeExcludesEverything(t *testing.T) {
	cards := []*testCard{
		{Name: "a", Cost: num(1)},
		{Name: "b", Cost: num(2)},
	}
	result := Process(cards, Query{
		Filters: []Condition{{Field: "cost", Value: "abc-def"}},
	}, nil)
	if len(result) != 0 {
		t.Errorf("malformed range kept %d items, want 0", len(result))
	}
}

func TestNumericEqualityFilter(t *testing.T) {
	cards := []*testCard{
		{Name: "a", Cost: num(3)},
		{Name: "b", Cost: num(4)},
	}
	result := Process(cards, Query{Filters: []Condition{{Field: "cost", Value: float64(3)}}}, nil)
	if len(result) != 1 || result[0].Name != "a" {
		t.Errorf("numeric equality = %v, want only a", names(result))
	}
}

func TestBooleanFilterCoercion(t *testing.T) {
	packs := []map[string]any{
		{"name": "Base Set", "archived": true},
		{"name": "Jungle", "archived": false},
	}
	result := Process(packs, Query{Filters: []Condition{{Field: "archived", Value: true}}}, nil)
	if len(result) != 1 || result[0]["name"] != "Base Set" {
		t.Errorf("boolean filter kept %d items", len(result))
	}
}

func TestUnknownFilterFieldExcludesItems(t *testing.T) {
	cards := []*testCard{{Name: "a"}, {Name: "b"}}
	result := Process(cards, Query{Filters: []Condition{{Field: "nope", Value: "x"}}}, nil)
	if len(result) != 0 {
		t.Errorf("unknown field substring filter kept %d items", len(result))
	}
}

func TestProcessNeverMutatesInput(t *testing.T) {
	cards := []*testCard{
		{Name: "c", Number: num(3)},
		{Name: "a", Number: num(1)},
		{Name: "b", Number: num(2)},
	}
	before := names(cards)
	result := Process(cards, Query{SortField: "number", SortOrder: OrderAsc}, nil)
	if !reflect.DeepEqual(names(cards), before) {
		t.Fatal("input slice was reordered")
	}
	if len(result) > 0 && &result[0] == &cards[0] {
		t.Fatal("result shares backing array with input")
	}
}

func TestEmptyInputYieldsEmptyResult(t *testing.T) {
	if got := Process[*testCard](nil, Query{SortField: "name"}, nil); len(got) != 0 {
		t.Errorf("nil input produced %d items", len(got))
	}
	if got := Process([]*testCard{}, Query{Search: "x"}, nil); len(got) != 0 {
		t.Errorf("empty input produced %d items", len(got))
	}
}
