// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package fleet holds the static vehicle catalog shown on the landing
// page. Cars are display data only and are never persisted.
package fleet

// Category groups cars by service tier.
type Category string

// Car categories.
const (
	CategoryLuxury  Category = "Luxury"
	CategoryMPV     Category = "MPV"
	CategoryEconomy Category = "Economy"
)

// Car describes a vehicle available for transfers and daily rental.
type Car struct {
	ID            string
	Name          string
	Category      Category
	PricePerDay   int // MYR
	PriceTransfer int // MYR, airport transfer rate
	Seats         int
	Image         string
	Gallery       []string
	Features      []string
}

var cars = []Car{
	{
		ID:            "1",
		Name:          "Toyota Alphard",
		Category:      CategoryLuxury,
		PricePerDay:   950,
		PriceTransfer: 350,
		Seats:         6,
		Image:         "https://images.unsplash.com/photo-1621213032485-649068b5779c?auto=format&fit=crop&q=80&w=800",
		Gallery: []string{
			"https://images.unsplash.com/photo-1621213032485-649068b5779c?auto=format&fit=crop&q=80&w=1200",
			"https://images.unsplash.com/photo-1563720223185-11003d516935?auto=format&fit=crop&q=80&w=1200",
			"https://images.unsplash.com/photo-1503376763036-066120622c74?auto=format&fit=crop&q=80&w=1200",
		},
		Features: []string{"VIP Captain Seats", "Dual Power Doors", "Premium Leather Interior", "Privacy Glass"},
	},
	{
		ID:            "2",
		Name:          "Hyundai Staria",
		Category:      CategoryMPV,
		PricePerDay:   850,
		PriceTransfer: 300,
		Seats:         7,
		Image:         "https://images.unsplash.com/photo-1696515233159-d8e6f1f51662?auto=format&fit=crop&q=80&w=800",
		Gallery: []string{
			"https://images.unsplash.com/photo-1696515233159-d8e6f1f51662?auto=format&fit=crop&q=80&w=1200",
			"https://images.unsplash.com/photo-1549399542-7e3f8b79c341?auto=format&fit=crop&q=80&w=1200",
		},
		Features: []string{"Futuristic Design", "Huge Window Views", "Premium Lounge Seats", "Advanced Safety Tech"},
	},
	{
		ID:            "3",
		Name:          "Toyota Innova",
		Category:      CategoryMPV,
		PricePerDay:   450,
		PriceTransfer: 180,
		Seats:         7,
		Image:         "https://images.unsplash.com/photo-1594967396014-41d441052608?auto=format&fit=crop&q=80&w=800",
		Gallery: []string{
			"https://images.unsplash.com/photo-1594967396014-41d441052608?auto=format&fit=crop&q=80&w=1200",
			"https://images.unsplash.com/photo-1542362567-b07e54358753?auto=format&fit=crop&q=80&w=1200",
		},
		Features: []string{"Family Favorite", "Robust Performance", "Spacious Cargo Space", "Excellent AC"},
	},
	{
		ID:            "4",
		Name:          "Perodua Alza",
		Category:      CategoryMPV,
		PricePerDay:   250,
		PriceTransfer: 130,
		Seats:         7,
		Image:         "https://images.unsplash.com/photo-1563720223185-11003d516935?auto=format&fit=crop&q=80&w=800",
		Gallery: []string{
			"https://images.unsplash.com/photo-1563720223185-11003d516935?auto=format&fit=crop&q=80&w=1200",
		},
		Features: []string{"Compact MPV", "Modern Multimedia", "Versatile Seating", "Fuel Efficient"},
	},
	{
		ID:            "5",
		Name:          "Perodua Bezza",
		Category:      CategoryEconomy,
		PricePerDay:   150,
		PriceTransfer: 90,
		Seats:         4,
		Image:         "https://images.unsplash.com/photo-1550355291-bbee04a92027?auto=format&fit=crop&q=80&w=800",
		Gallery: []string{
			"https://images.unsplash.com/photo-1550355291-bbee04a92027?auto=format&fit=crop&q=80&w=1200",
		},
		Features: []string{"Best Economy Sedan", "Huge Boot Space", "Exceptional Fuel Economy", "Smooth for City"},
	},
	{
		ID:            "6",
		Name:          "Perodua Axia",
		Category:      CategoryEconomy,
		PricePerDay:   120,
		PriceTransfer: 80,
		Seats:         4,
		Image:         "https://images.unsplash.com/photo-1541899481282-d53bffe3c35d?auto=format&fit=crop&q=80&w=800",
		Gallery: []string{
			"https://images.unsplash.com/photo-1541899481282-d53bffe3c35d?auto=format&fit=crop&q=80&w=1200",
		},
		Features: []string{"Ultra Compact", "Easy Parking", "Very Economical", "Agile Handling"},
	},
}

// All returns the full catalog in display order.
func All() []Car {
	return cars
}

// ByName returns the car with the given name, or false if none matches.
func ByName(name string) (Car, bool) {
	for _, c := range cars {
		if c.Name == name {
			return c, true
		}
	}
	return Car{}, false
}

// ByCategory returns cars in the given category, preserving display order.
func ByCategory(cat Category) []Car {
	var out []Car
	for _, c := range cars {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out
}
