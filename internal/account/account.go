package account

import (
	"github.com/google/uuid"
	"github.com/sellerdesk/pddcs/internal/httpx"
)

// Account is the authenticated operator context for one run. The cookie
// set is copied into every transport instance at construction and never
// mutated concurrently after that.
type Account struct {
	ID       string
	Username string
	UserID   string
	ShopID   string
	ShopName string
	MallLogo string
	Cookies  httpx.Cookies
}

func NewAccount(username string, cookies httpx.Cookies) *Account {
	return &Account{
		ID:       uuid.NewString(),
		Username: username,
		Cookies:  cookies,
	}
}

type Shop struct {
	ShopID string
	Name   string
	Logo   string
}
