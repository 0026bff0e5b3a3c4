package models

import "strings"

// Category is one of the fixed closed set of spending categories.
type Category string

const (
	CategoryHousing       Category = "HOUSING"
	CategoryDebt          Category = "DEBT"
	CategoryLiving        Category = "LIVING"
	CategorySavings       Category = "SAVINGS"
	CategoryInsurance     Category = "INSURANCE"
	CategoryUtilities     Category = "UTILITIES"
	CategoryTransport     Category = "TRANSPORT"
	CategoryGroceries     Category = "GROCERIES"
	CategoryDining        Category = "DINING"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryShopping      Category = "SHOPPING"
	CategoryOther         Category = "OTHER"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryHousing,
	CategoryDebt,
	CategoryLiving,
	CategorySavings,
	CategoryInsurance,
	CategoryUtilities,
	CategoryTransport,
	CategoryGroceries,
	CategoryDining,
	CategoryEntertainment,
	CategoryShopping,
	CategoryOther,
}

// ValidCategory reports whether s is one of the fixed category labels.
func ValidCategory(s string) bool {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps s onto the closed category set, coercing anything
// unknown to OTHER. Used as a guard against stale client-side values.
func ParseCategory(s string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}
