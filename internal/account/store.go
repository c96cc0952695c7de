package account

import (
	"strings"
	"sync"
)

// Store is the in-memory account/shop registry. One process runs one
// session, but the registry keeps the lookup surface (status command, ops
// endpoint) decoupled from the live session object.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*Account
	shops    map[string]Shop
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*Account),
		shops:    make(map[string]Shop),
	}
}

func (s *Store) UpsertAccount(a *Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
}

func (s *Store) FindAccountByUserID(userID string) (*Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.UserID, userID) {
			return a, true
		}
	}
	return nil, false
}

func (s *Store) Accounts() []*Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out
}

func (s *Store) SaveShop(shop Shop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shops[strings.ToLower(shop.ShopID)] = shop
}

func (s *Store) GetShop(shopID string) (Shop, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[strings.ToLower(shopID)]
	return shop, ok
}
