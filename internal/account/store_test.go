package account

import (
	"testing"

	"github.com/sellerdesk/pddcs/internal/httpx"
)

func TestStore_Accounts(t *testing.T) {
	s := NewStore()
	a := NewAccount("op", httpx.NewCookies())
	a.UserID = "U1"
	s.UpsertAccount(a)

	if got := len(s.Accounts()); got != 1 {
		t.Fatalf("Accounts() len = %d, want 1", got)
	}

	found, ok := s.FindAccountByUserID("u1")
	if !ok {
		t.Fatal("FindAccountByUserID should match case-insensitively")
	}
	if found.ID != a.ID {
		t.Errorf("found account %s, want %s", found.ID, a.ID)
	}

	if _, ok := s.FindAccountByUserID("nobody"); ok {
		t.Error("unexpected match for unknown user id")
	}
}

func TestStore_Shops(t *testing.T) {
	s := NewStore()
	s.SaveShop(Shop{ShopID: "Mall1", Name: "Demo"})

	shop, ok := s.GetShop("MALL1")
	if !ok {
		t.Fatal("GetShop should match case-insensitively")
	}
	if shop.Name != "Demo" {
		t.Errorf("Name = %q, want Demo", shop.Name)
	}

	s.SaveShop(Shop{ShopID: "mall1", Name: "Renamed"})
	shop, _ = s.GetShop("Mall1")
	if shop.Name != "Renamed" {
		t.Errorf("upsert did not replace: %q", shop.Name)
	}
}
