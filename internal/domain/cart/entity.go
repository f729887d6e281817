package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineKey identifies a cart line. VariantID is uuid.Nil for products without
// variants.
type LineKey struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
}

type Item struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	Price     PriceSnapshot
	AddedAt   time.Time
}

func (i Item) Key() LineKey {
	k := LineKey{ProductID: i.ProductID}
	if i.VariantID != nil {
		k.VariantID = *i.VariantID
	}
	return k
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	userID      uuid.UUID
	items       []Item
	totalItems  int
	totalAmount decimal.Decimal
}

func NewCart(userID uuid.UUID, items []Item) *Cart {
	c := &Cart{userID: userID, items: items}
	c.recalculate()
	return c
}

func (c *Cart) AddItem(item Item) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	key := item.Key()
	for idx := range c.items {
		if c.items[idx].Key() == key {
			c.items[idx].Quantity += item.Quantity
			c.items[idx].Price = item.Price
			c.recalculate()
			return nil
		}
	}
	c.items = append(c.items, item)
	c.recalculate()
	return nil
}

func (c *Cart) UpdateQuantity(key LineKey, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	idx := c.indexOf(key)
	if idx < 0 {
		return ErrItemNotInCart
	}
	c.items[idx].Quantity = quantity
	c.recalculate()
	return nil
}

func (c *Cart) RemoveItem(key LineKey) error {
	idx := c.indexOf(key)
	if idx < 0 {
		return ErrItemNotInCart
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.recalculate()
	return nil
}

func (c *Cart) Clear() {
	c.items = nil
	c.recalculate()
}

// ReplaceSnapshot refreshes the price snapshot of a line and reports whether
// it changed.
func (c *Cart) ReplaceSnapshot(key LineKey, price PriceSnapshot) bool {
	idx := c.indexOf(key)
	if idx < 0 || c.items[idx].Price.Equal(price) {
		return false
	}
	c.items[idx].Price = price
	c.recalculate()
	return true
}

func (c *Cart) Item(key LineKey) (Item, bool) {
	idx := c.indexOf(key)
	if idx < 0 {
		return Item{}, false
	}
	return c.items[idx], true
}

func (c *Cart) indexOf(key LineKey) int {
	for idx := range c.items {
		if c.items[idx].Key() == key {
			return idx
		}
	}
	return -1
}

// recalculate keeps totalAmount equal to the rounded sum of snapshot line
// totals.
func (c *Cart) recalculate() {
	count := 0
	amount := decimal.Zero
	for _, it := range c.items {
		count += it.Quantity
		amount = amount.Add(it.LineTotal())
	}
	c.totalItems = count
	c.totalAmount = amount.Round(2)
}

func (c *Cart) UserID() uuid.UUID            { return c.userID }
func (c *Cart) Items() []Item                { return append([]Item(nil), c.items...) }
func (c *Cart) TotalItems() int              { return c.totalItems }
func (c *Cart) TotalAmount() decimal.Decimal { return c.totalAmount }
func (c *Cart) IsEmpty() bool                { return len(c.items) == 0 }
