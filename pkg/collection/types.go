// Package collection holds the trading-card domain entities (packs,
// cards, decks, owned cards) and the in-memory store serving them to the
// list views.
package collection

type Pack struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	Number       *int   `json:"number,omitempty"`
	CardsPerPack int    `json:"cardsPerPack,omitempty"`
	Archived     bool   `json:"archived,omitempty"`
	Created      int64  `json:"created,omitempty"`
	Updated      int64  `json:"updated,omitempty"`
}

func (p *Pack) Field(name string) any {
	switch name {
	case "id":
		return p.Id
	case "name":
		return p.Name
	case "number":
		if p.Number == nil {
			return nil
		}
		return *p.Number
	case "cardsPerPack":
		return p.CardsPerPack
	case "archived":
		return p.Archived
	}
	return nil
}

type Card struct {
	Id     string `json:"id"`
	PackId string `json:"packId"`
	Name   string `json:"name"`
	Number *int   `json:"number,omitempty"`
	Rarity string `json:"rarity,omitempty"`
	Cost   *int   `json:"cost,omitempty"`
}

func (c *Card) Field(name string) any {
	switch name {
	case "id", "cardId":
		return c.Id
	case "packId":
		return c.PackId
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

type DeckEntry struct {
	CardId string `json:"cardId"`
	Count  int    `json:"count"`
}

type Deck struct {
	Id      string      `json:"id"`
	Name    string      `json:"name"`
	Number  *int        `json:"number,omitempty"`
	Entries []DeckEntry `json:"entries"`
	Created int64       `json:"created,omitempty"`
	Updated int64       `json:"updated,omitempty"`
}

// CardCount is the total number of cards in the deck, counting copies.
func (d *Deck) CardCount() int {
	total := 0
	for _, e := range d.Entries {
		total += e.Count
	}
	return total
}

func (d *Deck) Field(name string) any {
	switch name {
	case "id":
		return d.Id
	case "name":
		return d.Name
	case "number":
		if d.Number == nil {
			return nil
		}
		return *d.Number
	case "cardCount":
		return d.CardCount()
	}
	return nil
}

type OwnedCard struct {
	CardId   string `json:"cardId"`
	Count    int    `json:"count"`
	Obtained int64  `json:"obtained,omitempty"`
}

func (o *OwnedCard) Field(name string) any {
	switch name {
	case "id", "cardId":
		return o.CardId
	case "count":
		return o.Count
	case "obtained":
		return o.Obtained
	}
	return nil
}
