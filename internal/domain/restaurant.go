package domain

import "strconv"

// Restaurant is a static vendor record. The table is loaded once and never
// mutated.
type Restaurant struct {
	ID             int
	Name           string
	VendorEmail    string
	VendorPhone    string
	OperatingHours string
	Category       string
}

var restaurants = []Restaurant{
	{
		ID:             1,
		Name:           "BABAJI_FOOD-POINT",
		VendorEmail:    "babaji@foodles.shop",
		VendorPhone:    "+919373290270",
		OperatingHours: "10:30 AM - 8:30 PM",
		Category:       "Chinese, Indian",
	},
	{
		ID:             2,
		Name:           "HIMALAYAN_CAFE",
		VendorEmail:    "himalayan@foodles.shop",
		VendorPhone:    "+918278803839",
		OperatingHours: "10:30 AM - 10:00 PM",
		Category:       "Chinese, Indian",
	},
	{
		ID:             3,
		Name:           "SONU_FOOD-POINT",
		VendorEmail:    "sonu@foodles.shop",
		VendorPhone:    "+919882262948",
		OperatingHours: "10:30 AM - 9:45 PM",
		Category:       "Chinese, Indian",
	},
	{
		ID:             4,
		Name:           "JEEVA_FOOD-POINT",
		VendorEmail:    "jeeva@foodles.shop",
		VendorPhone:    "+917018596320",
		OperatingHours: "10:30 AM - 9:45 PM",
		Category:       "Chinese, Indian",
	},
	{
		ID:             5,
		Name:           "PIZZA-BITE",
		VendorEmail:    "pizzabite@foodles.shop",
		VendorPhone:    "+919625970000",
		OperatingHours: "11:00 AM - 9:45 PM",
		Category:       "American",
	},
}

// FixedPriceRestaurantID identifies the vendor whose remaining payment is
// recomputed to a flat token amount at confirmation time.
const FixedPriceRestaurantID = "5"

// FallbackRestaurant answers lookups for unknown ids so downstream contact
// resolution never comes up empty.
var FallbackRestaurant = Restaurant{
	Name:        "Restaurant",
	VendorEmail: "supp@foodles.shop",
	VendorPhone: "+91 98765 43210",
}

// RestaurantByID resolves a vendor record by its string id, falling back to
// FallbackRestaurant when the id is unknown or unparsable.
func RestaurantByID(restaurantID string) Restaurant {
	id, err := strconv.Atoi(restaurantID)
	if err != nil {
		return FallbackRestaurant
	}
	for _, r := range restaurants {
		if r.ID == id {
			return r
		}
	}
	return FallbackRestaurant
}

// Restaurants returns the full reference table.
func Restaurants() []Restaurant {
	return restaurants
}
