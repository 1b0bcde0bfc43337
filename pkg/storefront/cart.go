package storefront

import (
	"sync"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
)

// Cart holds the shopper's lines, mirrored to local storage after every change.
// A failed write leaves the in-memory cart as it was before the call.
type Cart struct {
	mu    sync.Mutex
	lines []domain.CartLine
	repo  *Repository[[]domain.CartLine]
}

func NewCart(repo *Repository[[]domain.CartLine]) (*Cart, error) {
	lines, _, err := repo.Load()
	if err != nil {
		return nil, err
	}
	return &Cart{lines: lines, repo: repo}, nil
}

// commit persists next and adopts it. An empty cart drops its storage entry.
func (c *Cart) commit(next []domain.CartLine) error {
	var err error
	if len(next) == 0 {
		err = c.repo.Clear()
	} else {
		err = c.repo.Save(next)
	}
	if err != nil {
		return err
	}
	c.lines = next
	return nil
}

func (c *Cart) snapshot() []domain.CartLine {
	return append([]domain.CartLine(nil), c.lines...)
}

func (c *Cart) find(productID int64, size *string) int {
	for i, l := range c.lines {
		if l.SameKey(productID, size) {
			return i
		}
	}
	return -1
}

// Add merges quantity into the (product, size) line or appends a new line priced at
// the product's current price.
func (c *Cart) Add(p domain.Product, quantity int, size *string) error {
	if quantity < 1 {
		return domain.ValidationError("add to cart", "quantity must be at least 1, got %d", quantity)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snapshot()
	if i := c.find(p.ID, size); i >= 0 {
		next[i].Quantity += quantity
		return c.commit(next)
	}

	var sizeCopy *string
	if size != nil {
		s := *size
		sizeCopy = &s
	}
	next = append(next, domain.CartLine{
		ProductID: p.ID,
		Size:      sizeCopy,
		Quantity:  quantity,
		Price:     p.Price,
		Name:      p.Name,
		Image:     p.Image(),
		Category:  p.Category,
	})
	return c.commit(next)
}

// UpdateQuantity replaces the line's quantity; zero or less removes the line.
func (c *Cart) UpdateQuantity(productID int64, quantity int, size *string) error {
	if quantity <= 0 {
		return c.Remove(productID, size)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID, size)
	if i < 0 {
		return domain.NotFoundError("update cart", "product %d is not in the cart", productID)
	}
	next := c.snapshot()
	next[i].Quantity = quantity
	return c.commit(next)
}

// Remove deletes the matching line. A missing line is not an error.
func (c *Cart) Remove(productID int64, size *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(productID, size)
	if i < 0 {
		return nil
	}
	next := c.snapshot()
	next = append(next[:i], next[i+1:]...)
	return c.commit(next)
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(nil)
}

// Subtotal sums the snapshot prices; stored lines are never re-priced.
func (c *Cart) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pricing.Subtotal(c.lines)
}

func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Count is the number of items, not lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}
