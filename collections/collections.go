package collections

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"sync"

	"mlm-storefront/models"
	"mlm-storefront/storage"
)

func cartKey(userID string) string     { return "cart_" + userID }
func wishlistKey(userID string) string { return "wishlist_" + userID }

// safeNum guards price arithmetic: non-finite values count as zero so a bad
// snapshot can never turn the cart total into NaN.
func safeNum(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Manager owns the current user's cart and wishlist. Both collections keep
// insertion order, are namespaced by user ID in durable storage, and are
// written back after every mutation, so a reload sees the latest state.
//
// Every mutation is a silent no-op while no user is set; callers are
// expected to gate these actions behind an auth check, but the store must
// not crash or corrupt state if they don't.
type Manager struct {
	mu       sync.Mutex
	store    storage.Store
	userID   string
	cart     []models.CartItem
	wishlist []models.Product
}

func NewManager(store storage.Store) *Manager {
	return &Manager{store: store}
}

// SetUser switches the collections to userID, loading that user's persisted
// cart and wishlist. The previous user's items are dropped from memory
// before anything is loaded, so a user switch never leaks items across
// accounts, not even transiently. An empty userID means logged out.
func (m *Manager) SetUser(ctx context.Context, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userID = userID
	m.cart = nil
	m.wishlist = nil
	if userID == "" {
		return
	}

	if data, err := m.store.Get(ctx, cartKey(userID)); err == nil {
		var items []models.CartItem
		if err := json.Unmarshal(data, &items); err != nil {
			log.Printf("collections: discarding corrupt cart for user %s: %v", userID, err)
		} else {
			m.cart = items
		}
	}

	if data, err := m.store.Get(ctx, wishlistKey(userID)); err == nil {
		var items []models.Product
		if err := json.Unmarshal(data, &items); err != nil {
			log.Printf("collections: discarding corrupt wishlist for user %s: %v", userID, err)
		} else {
			m.wishlist = items
		}
	}
}

// Logout resets the in-memory collections immediately. Persisted state is
// left untouched so the user finds their cart again on next login.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userID = ""
	m.cart = nil
	m.wishlist = nil
}

// UserID reports which user the collections are currently scoped to.
func (m *Manager) UserID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userID
}

func (m *Manager) persistCart(ctx context.Context) {
	data, err := json.Marshal(m.cart)
	if err == nil {
		err = m.store.Set(ctx, cartKey(m.userID), data)
	}
	if err != nil {
		log.Printf("collections: persisting cart for user %s: %v", m.userID, err)
	}
}

func (m *Manager) persistWishlist(ctx context.Context) {
	data, err := json.Marshal(m.wishlist)
	if err == nil {
		err = m.store.Set(ctx, wishlistKey(m.userID), data)
	}
	if err != nil {
		log.Printf("collections: persisting wishlist for user %s: %v", m.userID, err)
	}
}

// AddToCart merges quantity into the existing line for the same product, or
// appends a new line at the end so insertion order stays user-visible.
// Quantities below 1 are coerced to 1; the same product never gets a second
// line.
func (m *Manager) AddToCart(ctx context.Context, product models.Product, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" || product.ID == "" {
		return
	}
	if quantity < 1 {
		quantity = 1
	}

	merged := false
	for i := range m.cart {
		if m.cart[i].ProductID == product.ID {
			m.cart[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		m.cart = append(m.cart, models.CartItem{
			ProductID: product.ID,
			Product:   product,
			Quantity:  quantity,
		})
	}
	m.persistCart(ctx)
}

// UpdateQuantity sets the line for productID to exactly quantity. A request
// that resolves to zero or less removes the line entirely; an unknown
// productID is a no-op.
func (m *Manager) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" {
		return
	}

	changed := false
	next := make([]models.CartItem, 0, len(m.cart))
	for _, item := range m.cart {
		if item.ProductID == productID {
			changed = true
			if quantity <= 0 {
				continue // explicit set-to-zero acts as removal
			}
			item.Quantity = quantity
		}
		next = append(next, item)
	}
	if !changed {
		return
	}
	m.cart = next
	m.persistCart(ctx)
}

// RemoveFromCart drops the line for productID; absence is a no-op.
func (m *Manager) RemoveFromCart(ctx context.Context, productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" {
		return
	}

	next := make([]models.CartItem, 0, len(m.cart))
	for _, item := range m.cart {
		if item.ProductID != productID {
			next = append(next, item)
		}
	}
	if len(next) == len(m.cart) {
		return
	}
	m.cart = next
	m.persistCart(ctx)
}

// ClearCart empties the cart and erases its storage key entirely, not just
// an empty array.
func (m *Manager) ClearCart(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" {
		return
	}
	m.cart = nil
	if err := m.store.Delete(ctx, cartKey(m.userID)); err != nil {
		log.Printf("collections: clearing cart for user %s: %v", m.userID, err)
	}
}

// Cart returns a copy of the cart lines in insertion order.
func (m *Manager) Cart() []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CartItem(nil), m.cart...)
}

// CartCount is the sum of quantities over all cart lines.
func (m *Manager) CartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, item := range m.cart {
		count += item.Quantity
	}
	return count
}

// CalculateTotal sums price times quantity over the cart using each line's
// add-time price snapshot. It never returns NaN: unusable prices count as 0.
func (m *Manager) CalculateTotal() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0.0
	for _, item := range m.cart {
		total += safeNum(float64(item.Product.Price)) * float64(item.Quantity)
	}
	return total
}

// AddToWishlist appends the product unless it is already present.
func (m *Manager) AddToWishlist(ctx context.Context, product models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" || product.ID == "" {
		return
	}
	for _, p := range m.wishlist {
		if p.ID == product.ID {
			return
		}
	}
	m.wishlist = append(m.wishlist, product)
	m.persistWishlist(ctx)
}

// RemoveFromWishlist drops the product; absence is a no-op.
func (m *Manager) RemoveFromWishlist(ctx context.Context, productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" {
		return
	}

	next := make([]models.Product, 0, len(m.wishlist))
	for _, p := range m.wishlist {
		if p.ID != productID {
			next = append(next, p)
		}
	}
	if len(next) == len(m.wishlist) {
		return
	}
	m.wishlist = next
	m.persistWishlist(ctx)
}

// ToggleWishlist removes the product if present, adds it if absent, as one
// state transition.
func (m *Manager) ToggleWishlist(ctx context.Context, product models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" || product.ID == "" {
		return
	}

	next := make([]models.Product, 0, len(m.wishlist))
	removed := false
	for _, p := range m.wishlist {
		if p.ID == product.ID {
			removed = true
			continue
		}
		next = append(next, p)
	}
	if !removed {
		next = append(next, product)
	}
	m.wishlist = next
	m.persistWishlist(ctx)
}

// IsInWishlist reports membership for the current user; always false while
// logged out. It reflects the most recent mutation synchronously.
func (m *Manager) IsInWishlist(productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userID == "" {
		return false
	}
	for _, p := range m.wishlist {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Wishlist returns a copy of the wishlist in insertion order.
func (m *Manager) Wishlist() []models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Product(nil), m.wishlist...)
}

// WishlistCount is the number of wishlist entries.
func (m *Manager) WishlistCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.wishlist)
}
