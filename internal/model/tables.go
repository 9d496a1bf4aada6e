package model

import "time"

// Menu is one row of the Menu table. PageCount and DishCount are the
// counts the source data declares, not counts menuscan derives; whether
// they match reality is exactly what the consistency constraints check.
type Menu struct {
	// ID is the unique menu identifier.
	ID int64 `json:"id"`

	// Name is the menu title as transcribed.
	Name string `json:"name"`

	// Date is the date printed on the menu. Nil when the date is absent
	// or failed to parse as a calendar date.
	Date *time.Time `json:"date,omitempty"`

	// Location is the venue the menu belongs to.
	Location string `json:"location"`

	// PageCount is the declared number of pages.
	PageCount int64 `json:"page_count"`

	// DishCount is the declared number of distinct dishes.
	DishCount int64 `json:"dish_count"`
}

// MenuPage is one row of the MenuPage table.
//
// Design decision: foreign-key columns are nullable. A null or
// unparseable menu_id is an absent reference, not a reference to menu
// 0; the referential constraints only judge keys that carry a value,
// so null keys never read as dangling.
type MenuPage struct {
	// ID is the unique page identifier.
	ID int64 `json:"id"`

	// MenuID references Menu.ID, nil when the source row has none. The
	// reference is not enforced by storage; dangling values are what
	// "Missing Menu References" finds.
	MenuID *int64 `json:"menu_id,omitempty"`

	// PageNumber is the page's position within its menu, nil when the
	// source row has none.
	PageNumber *int64 `json:"page_number,omitempty"`
}

// MenuItem is one row of the MenuItem table.
type MenuItem struct {
	// ID is the unique item identifier.
	ID int64 `json:"id"`

	// MenuPageID references MenuPage.ID, nil when absent.
	MenuPageID *int64 `json:"menu_page_id,omitempty"`

	// DishID references Dish.ID, nil when absent.
	DishID *int64 `json:"dish_id,omitempty"`

	// Price is the transcribed price. Nil means "price not recorded",
	// which also covers values that failed to parse as a number.
	Price *float64 `json:"price,omitempty"`
}

// Dish is one row of the Dish table.
type Dish struct {
	// ID is the unique dish identifier.
	ID int64 `json:"id"`

	// Name is the dish name. Nil when the source row has no name at all;
	// empty and whitespace-only names are kept as-is so the "Empty Dish
	// Names" constraint can report them.
	Name *string `json:"name,omitempty"`

	// PriceLow and PriceHigh are the observed price range for the dish
	// across all its appearances. Both may be nil.
	PriceLow  *float64 `json:"price_low,omitempty"`
	PriceHigh *float64 `json:"price_high,omitempty"`

	// TimesAppeared is how many menus the dish appears on.
	TimesAppeared int64 `json:"times_appeared"`
}
