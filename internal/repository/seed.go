package repository

import (
	"sync"
	"time"

	"zenith-pos/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password of every seeded operator.
const DefaultPassword = "password123"

// SeedProducts returns the default café catalog.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{ID: "prod_1", Name: "Espresso", Price: 2.50, SKU: "ZEN-ESP", Barcode: "111111", ImageURL: image("1579954115545-b7cd92991697")},
		{ID: "prod_2", Name: "Latte", Price: 3.50, SKU: "ZEN-LAT", Barcode: "222222", ImageURL: image("1561882468-91101f2e5f87")},
		{ID: "prod_3", Name: "Cappuccino", Price: 3.50, SKU: "ZEN-CAP", Barcode: "333333", ImageURL: image("1557006029-3b2a4d8e2797")},
		{ID: "prod_4", Name: "Americano", Price: 3.00, SKU: "ZEN-AME", Barcode: "444444", ImageURL: image("1545665225-b23b99e4d45e")},
		{ID: "prod_5", Name: "Mocha", Price: 4.00, SKU: "ZEN-MOC", Barcode: "555555", ImageURL: image("1608079845399-93a145b45b33")},
		{ID: "prod_6", Name: "Iced Coffee", Price: 3.25, SKU: "ZEN-ICE", Barcode: "666666", ImageURL: image("1517701559435-56a42ea95b7f")},
		{ID: "prod_7", Name: "Croissant", Price: 2.75, SKU: "ZEN-CRO", Barcode: "777777", ImageURL: image("1587668178277-2952e7f90c3d")},
		{ID: "prod_8", Name: "Muffin", Price: 2.50, SKU: "ZEN-MUF", Barcode: "888888", ImageURL: image("1558326567-98ae2405596b")},
		{ID: "prod_9", Name: "Bagel", Price: 3.00, SKU: "ZEN-BAG", Barcode: "999999", ImageURL: image("1598214886343-7c641b3a652e")},
		{ID: "prod_10", Name: "Scone", Price: 2.85, SKU: "ZEN-SCO", Barcode: "101010", ImageURL: image("1621994382629-6133a039913f")},
	}
}

func image(photo string) string {
	return "https://images.unsplash.com/photo-" + photo + "?q=80&w=2830&auto=format&fit=crop"
}

// defaultPasswordHash is computed once per process; bcrypt is deliberately slow.
var defaultPasswordHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		panic("failed to hash default password: " + err.Error())
	}
	return string(hash)
})

// SeedUsers returns the default operators with hashed passwords.
func SeedUsers() []domain.User {
	hash := defaultPasswordHash()
	return []domain.User{
		{ID: "u1", Name: "Admin", Password: hash},
		{ID: "u2", Name: "Cashier", Password: hash},
	}
}

// SeedChats returns the default chat board holding one greeting.
func SeedChats(now time.Time) []domain.ChatBoard {
	return []domain.ChatBoard{{
		ID:    "c1",
		Title: "General",
		Messages: []domain.ChatMessage{
			{ID: "m1", ChatID: "c1", UserID: "u1", Text: "Hello", TS: now.UnixMilli()},
		},
	}}
}
