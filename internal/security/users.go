package security

import (
	"crypto/subtle"
	"strings"

	"github.com/aq2208/gshop-api/internal/usecase"
)

const (
	PermCartWrite   = "cart.write"
	PermOrdersRead  = "orders.read"
	PermOrdersWrite = "orders.write"
	PermShopsWrite  = "shops.write"
	PermShopsAdmin  = "shops.admin"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Mocked account store: one fixed admin, everyone else is a customer.
const (
	adminEmail    = "admin@multishop.com"
	adminPassword = "admin123"
)

var (
	customerPerms = []string{PermCartWrite, PermOrdersRead, PermOrdersWrite, PermShopsWrite}
	adminPerms    = append(append([]string(nil), customerPerms...), PermShopsAdmin)
)

type Principal struct {
	Subject string
	Role    string
	Perms   []string
}

// Authenticate checks the login form. Any non-empty credentials pass as a
// customer; only the admin account gets shops.admin.
func Authenticate(email, password string) (Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Principal{}, usecase.ErrInvalidCredentials
	}
	if email == adminEmail {
		if subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword)) != 1 {
			return Principal{}, usecase.ErrInvalidCredentials
		}
		return Principal{Subject: email, Role: RoleAdmin, Perms: append([]string(nil), adminPerms...)}, nil
	}
	return Principal{Subject: email, Role: RoleCustomer, Perms: append([]string(nil), customerPerms...)}, nil
}
