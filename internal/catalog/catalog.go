package catalog

import (
	"context"
	"sort"

	"storefront/internal/logging"
)

// Catalog is an immutable in-memory product list.
// The zero value is an empty catalog.
type Catalog struct {
	products []Product
	index    map[ID]int
}

// New builds a catalog from products. Later duplicates of an id are dropped.
func New(products []Product) *Catalog {
	c := &Catalog{index: make(map[ID]int, len(products))}
	for _, p := range products {
		if _, dup := c.index[p.ID]; dup {
			logging.CatalogDebug("Dropping duplicate product id %s", p.ID)
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Load fetches products through f and builds a catalog.
func Load(ctx context.Context, f Fetcher) (*Catalog, error) {
	products, err := f.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	c := New(products)
	logging.Catalog("Catalog ready: %d products (%d received)", c.Len(), len(products))
	return c, nil
}

// Find looks up a product by id.
func (c *Catalog) Find(id ID) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Products returns the listing in source order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var cats []string
	for _, p := range c.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		cats = append(cats, p.Category)
	}
	sort.Strings(cats)
	return cats
}

// Filter returns the products in category, in source order.
// An empty category returns everything.
func (c *Catalog) Filter(category string) []Product {
	if category == "" {
		return c.Products()
	}
	if c == nil {
		return nil
	}
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
