package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/menuscan/menuscan/internal/model"
)

// Canonical constraint names, in battery order. The order is the fixed
// catalog order; constraints are independent, so order never affects
// results, but reports must be reproducible.
const (
	NameMissingDishRefs    = "Missing Dish References"
	NameMissingMenuRefs    = "Missing Menu References"
	NameMissingPageRefs    = "Missing Page References"
	NameNegativePrices     = "Invalid Negative Prices"
	NameInconsistentRanges = "Inconsistent Price Ranges"
	NameExtremeOutliers    = "Extreme Price Outliers"
	NameEmptyDishNames     = "Empty Dish Names"
	NameDuplicateDishNames = "Duplicate Dish Names"
	NameEmptyMenuPages     = "Empty Menu Pages"
	NameInconsistentPages  = "Inconsistent Page Counts"
	NameInconsistentDishes = "Inconsistent Dish Counts"
	NameAnachronisticDates = "Anachronistic Dates"
	NameCleaningBrokeRefs  = "Cleaning Broke References"
	NameUncappedOutliers   = "Uncapped Outliers Remain"
	NameUncleanedDishNames = "Uncleaned Dish Names"
)

// Constraint is one integrity rule evaluated against a snapshot.
//
// Design decision: an interface rather than a function type, mirroring
// the step interface of a scan pipeline: it lets constraints carry
// configuration (sigma multiplier, date bounds, frozen thresholds) and
// gives every rule a stable Name for reports and logging.
//
// Check returns the complete, id-sorted violation list. Sampling for
// report output is the engine's job, so the reported violation count is
// always the true count. A wrapped ErrConstraintUnavailable means the
// rule cannot run on this snapshot; any other behavior must return the
// empty list, never an error, when no rows violate.
type Constraint interface {
	Name() string
	Check(ctx context.Context, snap *model.Snapshot) ([]model.Violation, error)
}

// unavailable builds the error for a constraint that cannot run.
func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConstraintUnavailable, fmt.Sprintf(format, args...))
}

// requireColumns checks that a table was loaded with the named columns.
func requireColumns(snap *model.Snapshot, t model.Table, cols ...string) error {
	if !snap.Has(t) {
		return unavailable("table %s not loaded", t)
	}
	if !snap.HasColumns(t, cols...) {
		return unavailable("table %s missing column(s) %s", t, strings.Join(cols, ", "))
	}
	return nil
}

// sortByID sorts violations by an int64 column for deterministic output.
func sortByID(violations []model.Violation, key string) {
	sort.Slice(violations, func(i, j int) bool {
		a, _ := violations[i][key].(int64)
		b, _ := violations[j][key].(int64)
		return a < b
	})
}

// missingDishRefs finds menu items whose dish_id references no dish.
// A null dish_id is an absent reference, not a dangling one, and is
// never flagged.
type missingDishRefs struct{}

func (missingDishRefs) Name() string { return NameMissingDishRefs }

func (missingDishRefs) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenuItem, "id", "dish_id"); err != nil {
		return nil, err
	}
	if err := requireColumns(snap, model.TableDish, "id"); err != nil {
		return nil, err
	}
	dishes := snap.DishIDSet()
	var out []model.Violation
	for _, it := range snap.MenuItems {
		if it.DishID == nil {
			continue
		}
		if _, ok := dishes[*it.DishID]; !ok {
			out = append(out, model.Violation{"menu_item_id": it.ID, "dish_id": *it.DishID})
		}
	}
	sortByID(out, "menu_item_id")
	return out, nil
}

// missingMenuRefs finds menu pages whose menu_id references no menu.
type missingMenuRefs struct{}

func (missingMenuRefs) Name() string { return NameMissingMenuRefs }

func (missingMenuRefs) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenuPage, "id", "menu_id"); err != nil {
		return nil, err
	}
	if err := requireColumns(snap, model.TableMenu, "id"); err != nil {
		return nil, err
	}
	menus := snap.MenuIDSet()
	var out []model.Violation
	for _, p := range snap.MenuPages {
		if p.MenuID == nil {
			continue
		}
		if _, ok := menus[*p.MenuID]; !ok {
			out = append(out, model.Violation{"menu_page_id": p.ID, "menu_id": *p.MenuID})
		}
	}
	sortByID(out, "menu_page_id")
	return out, nil
}

// missingPageRefs finds menu items whose menu_page_id references no page.
type missingPageRefs struct{}

func (missingPageRefs) Name() string { return NameMissingPageRefs }

func (missingPageRefs) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenuItem, "id", "menu_page_id"); err != nil {
		return nil, err
	}
	if err := requireColumns(snap, model.TableMenuPage, "id"); err != nil {
		return nil, err
	}
	pages := snap.PageIDSet()
	var out []model.Violation
	for _, it := range snap.MenuItems {
		if it.MenuPageID == nil {
			continue
		}
		if _, ok := pages[*it.MenuPageID]; !ok {
			out = append(out, model.Violation{"menu_item_id": it.ID, "menu_page_id": *it.MenuPageID})
		}
	}
	sortByID(out, "menu_item_id")
	return out, nil
}

// negativePrices finds menu items priced below zero. Null prices mean
// "not recorded" and never violate.
type negativePrices struct{}

func (negativePrices) Name() string { return NameNegativePrices }

func (negativePrices) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenuItem, "id", "price"); err != nil {
		return nil, err
	}
	var out []model.Violation
	for _, it := range snap.MenuItems {
		if it.Price != nil && *it.Price < 0 {
			out = append(out, model.Violation{"menu_item_id": it.ID, "price": *it.Price})
		}
	}
	sortByID(out, "menu_item_id")
	return out, nil
}

// inconsistentRanges finds dishes whose observed price range is
// inverted (price_low > price_high with both present).
type inconsistentRanges struct{}

func (inconsistentRanges) Name() string { return NameInconsistentRanges }

func (inconsistentRanges) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableDish, "id", "price_low", "price_high"); err != nil {
		return nil, err
	}
	var out []model.Violation
	for _, d := range snap.Dishes {
		if d.PriceLow != nil && d.PriceHigh != nil && *d.PriceLow > *d.PriceHigh {
			out = append(out, model.Violation{
				"dish_id":    d.ID,
				"price_low":  *d.PriceLow,
				"price_high": *d.PriceHigh,
			})
		}
	}
	sortByID(out, "dish_id")
	return out, nil
}

// extremeOutliers finds prices beyond mean + sigma*stddev, with the
// statistics computed over this snapshot's own non-null prices.
type extremeOutliers struct {
	sigma float64
}

func (extremeOutliers) Name() string { return NameExtremeOutliers }

func (c extremeOutliers) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenuItem, "id", "price"); err != nil {
		return nil, err
	}
	stats, ok := SnapshotPriceStats(snap)
	if !ok {
		return nil, unavailable("no non-null prices to compute outlier threshold")
	}
	threshold := stats.Threshold(c.sigma)
	var out []model.Violation
	for _, it := range snap.MenuItems {
		if it.Price != nil && *it.Price > threshold {
			out = append(out, model.Violation{
				"menu_item_id": it.ID,
				"price":        *it.Price,
				"threshold":    threshold,
			})
		}
	}
	sortByID(out, "menu_item_id")
	return out, nil
}

// emptyDishNames finds dishes with a null, empty, or whitespace-only name.
type emptyDishNames struct{}

func (emptyDishNames) Name() string { return NameEmptyDishNames }

func (emptyDishNames) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableDish, "id", "name"); err != nil {
		return nil, err
	}
	var out []model.Violation
	for _, d := range snap.Dishes {
		if d.Name == nil || strings.TrimSpace(*d.Name) == "" {
			out = append(out, model.Violation{"dish_id": d.ID})
		}
	}
	sortByID(out, "dish_id")
	return out, nil
}

// duplicateDishNames groups dishes by normalized name and reports one
// violation per group of two or more. The group lists all member ids,
// so two rows differing only in case and whitespace yield exactly one
// violation, not two.
type duplicateDishNames struct{}

func (duplicateDishNames) Name() string { return NameDuplicateDishNames }

func (duplicateDishNames) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableDish, "id", "name"); err != nil {
		return nil, err
	}
	groups := make(map[string][]int64)
	for _, d := range snap.Dishes {
		if d.Name == nil {
			continue
		}
		norm := NormalizeName(*d.Name)
		if norm == "" {
			continue
		}
		groups[norm] = append(groups[norm], d.ID)
	}

	var out []model.Violation
	for norm, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out = append(out, model.Violation{"dish_id_list": ids, "name": norm})
	}
	// Groups come out of the map unordered; sort by the smallest member
	// id so repeated runs produce identical reports.
	sort.Slice(out, func(i, j int) bool {
		a := out[i]["dish_id_list"].([]int64)
		b := out[j]["dish_id_list"].([]int64)
		return a[0] < b[0]
	})
	return out, nil
}

// emptyMenuPages finds pages no menu item references.
type emptyMenuPages struct{}

func (emptyMenuPages) Name() string { return NameEmptyMenuPages }

func (emptyMenuPages) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenuPage, "id", "menu_id"); err != nil {
		return nil, err
	}
	if err := requireColumns(snap, model.TableMenuItem, "menu_page_id"); err != nil {
		return nil, err
	}
	referenced := make(map[int64]struct{}, len(snap.MenuItems))
	for _, it := range snap.MenuItems {
		if it.MenuPageID != nil {
			referenced[*it.MenuPageID] = struct{}{}
		}
	}
	var out []model.Violation
	for _, p := range snap.MenuPages {
		if _, ok := referenced[p.ID]; !ok {
			v := model.Violation{"menu_page_id": p.ID}
			if p.MenuID != nil {
				v["menu_id"] = *p.MenuID
			}
			out = append(out, v)
		}
	}
	sortByID(out, "menu_page_id")
	return out, nil
}

// inconsistentPages finds menus whose declared page count disagrees
// with the number of MenuPage rows that reference them.
type inconsistentPages struct{}

func (inconsistentPages) Name() string { return NameInconsistentPages }

func (inconsistentPages) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenu, "id", "page_count"); err != nil {
		return nil, err
	}
	if err := requireColumns(snap, model.TableMenuPage, "menu_id"); err != nil {
		return nil, err
	}
	actual := make(map[int64]int64, len(snap.Menus))
	for _, p := range snap.MenuPages {
		if p.MenuID != nil {
			actual[*p.MenuID]++
		}
	}
	var out []model.Violation
	for _, m := range snap.Menus {
		if m.PageCount != actual[m.ID] {
			out = append(out, model.Violation{
				"menu_id":        m.ID,
				"declared_count": m.PageCount,
				"actual_count":   actual[m.ID],
			})
		}
	}
	sortByID(out, "menu_id")
	return out, nil
}

// inconsistentDishes finds menus whose declared dish count disagrees
// with the number of distinct dishes reachable through the menu's pages.
type inconsistentDishes struct{}

func (inconsistentDishes) Name() string { return NameInconsistentDishes }

func (inconsistentDishes) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenu, "id", "dish_count"); err != nil {
		return nil, err
	}
	if err := requireColumns(snap, model.TableMenuPage, "id", "menu_id"); err != nil {
		return nil, err
	}
	if err := requireColumns(snap, model.TableMenuItem, "menu_page_id", "dish_id"); err != nil {
		return nil, err
	}
	pageMenu := snap.PageMenuIndex()
	seen := make(map[int64]map[int64]struct{})
	for _, it := range snap.MenuItems {
		if it.MenuPageID == nil || it.DishID == nil {
			// A null key reaches no menu and names no dish.
			continue
		}
		menuID, ok := pageMenu[*it.MenuPageID]
		if !ok {
			// Orphaned item; the reference constraints report it.
			continue
		}
		dishes := seen[menuID]
		if dishes == nil {
			dishes = make(map[int64]struct{})
			seen[menuID] = dishes
		}
		dishes[*it.DishID] = struct{}{}
	}
	var out []model.Violation
	for _, m := range snap.Menus {
		actual := int64(len(seen[m.ID]))
		if m.DishCount != actual {
			out = append(out, model.Violation{
				"menu_id":        m.ID,
				"declared_count": m.DishCount,
				"actual_count":   actual,
			})
		}
	}
	sortByID(out, "menu_id")
	return out, nil
}

// anachronisticDates finds menus dated outside the valid historical
// range. Null dates never violate; missing dates are a completeness
// concern, not an anachronism.
type anachronisticDates struct {
	minYear int
	maxYear int
}

func (anachronisticDates) Name() string { return NameAnachronisticDates }

func (c anachronisticDates) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableMenu, "id", "date"); err != nil {
		return nil, err
	}
	var out []model.Violation
	for _, m := range snap.Menus {
		if m.Date == nil {
			continue
		}
		year := m.Date.Year()
		if year < c.minYear || year > c.maxYear {
			out = append(out, model.Violation{
				"menu_id": m.ID,
				"date":    m.Date.Format("2006-01-02"),
			})
		}
	}
	sortByID(out, "menu_id")
	return out, nil
}

// cleaningBrokeRefs is the cross-snapshot check: a foreign key that
// resolved in the baseline (original) snapshot but dangles in the
// snapshot under validation. All three relationships are covered.
// Without a baseline the check reports UNAVAILABLE.
type cleaningBrokeRefs struct {
	baseline *model.Snapshot
}

func (cleaningBrokeRefs) Name() string { return NameCleaningBrokeRefs }

func (c cleaningBrokeRefs) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if c.baseline == nil {
		return nil, unavailable("requires the original snapshot as baseline")
	}
	var out []model.Violation

	if snap.Has(model.TableMenuItem) && snap.Has(model.TableDish) &&
		c.baseline.Has(model.TableMenuItem) && c.baseline.Has(model.TableDish) {
		baseDishes := c.baseline.DishIDSet()
		baseItemDish := make(map[int64]int64, len(c.baseline.MenuItems))
		for _, it := range c.baseline.MenuItems {
			if it.DishID != nil {
				baseItemDish[it.ID] = *it.DishID
			}
		}
		dishes := snap.DishIDSet()
		for _, it := range snap.MenuItems {
			if it.DishID == nil {
				// A null key references nothing, so it cannot dangle.
				continue
			}
			if _, ok := dishes[*it.DishID]; ok {
				continue
			}
			baseDish, existed := baseItemDish[it.ID]
			if !existed {
				continue
			}
			if _, valid := baseDishes[baseDish]; valid {
				out = append(out, model.Violation{"row_id": it.ID, "table": string(model.TableMenuItem), "reference": "dish_id"})
			}
		}
	}

	if snap.Has(model.TableMenuItem) && snap.Has(model.TableMenuPage) &&
		c.baseline.Has(model.TableMenuItem) && c.baseline.Has(model.TableMenuPage) {
		basePages := c.baseline.PageIDSet()
		baseItemPage := make(map[int64]int64, len(c.baseline.MenuItems))
		for _, it := range c.baseline.MenuItems {
			if it.MenuPageID != nil {
				baseItemPage[it.ID] = *it.MenuPageID
			}
		}
		pages := snap.PageIDSet()
		for _, it := range snap.MenuItems {
			if it.MenuPageID == nil {
				continue
			}
			if _, ok := pages[*it.MenuPageID]; ok {
				continue
			}
			basePage, existed := baseItemPage[it.ID]
			if !existed {
				continue
			}
			if _, valid := basePages[basePage]; valid {
				out = append(out, model.Violation{"row_id": it.ID, "table": string(model.TableMenuItem), "reference": "menu_page_id"})
			}
		}
	}

	if snap.Has(model.TableMenuPage) && snap.Has(model.TableMenu) &&
		c.baseline.Has(model.TableMenuPage) && c.baseline.Has(model.TableMenu) {
		baseMenus := c.baseline.MenuIDSet()
		basePageMenu := c.baseline.PageMenuIndex()
		menus := snap.MenuIDSet()
		for _, p := range snap.MenuPages {
			if p.MenuID == nil {
				continue
			}
			if _, ok := menus[*p.MenuID]; ok {
				continue
			}
			baseMenu, existed := basePageMenu[p.ID]
			if !existed {
				continue
			}
			if _, valid := baseMenus[baseMenu]; valid {
				out = append(out, model.Violation{"row_id": p.ID, "table": string(model.TableMenuPage), "reference": "menu_id"})
			}
		}
	}

	sortByID(out, "row_id")
	return out, nil
}

// uncappedOutliers finds prices above a threshold frozen from the
// original snapshot's distribution. The threshold is supplied
// externally; recomputing it on cleaned data would make the check
// self-referential, since capping shrinks the standard deviation.
type uncappedOutliers struct {
	threshold *float64
}

func (uncappedOutliers) Name() string { return NameUncappedOutliers }

func (c uncappedOutliers) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if c.threshold == nil {
		return nil, unavailable("requires the outlier threshold of the original snapshot")
	}
	if err := requireColumns(snap, model.TableMenuItem, "id", "price"); err != nil {
		return nil, err
	}
	var out []model.Violation
	for _, it := range snap.MenuItems {
		if it.Price != nil && *it.Price > *c.threshold {
			out = append(out, model.Violation{"menu_item_id": it.ID, "price": *it.Price})
		}
	}
	sortByID(out, "menu_item_id")
	return out, nil
}

// uncleanedDishNames finds dish names not in the title-cased form the
// cleaning stage produces. Null names are skipped; they belong to the
// empty-name constraint.
type uncleanedDishNames struct{}

func (uncleanedDishNames) Name() string { return NameUncleanedDishNames }

func (uncleanedDishNames) Check(_ context.Context, snap *model.Snapshot) ([]model.Violation, error) {
	if err := requireColumns(snap, model.TableDish, "id", "name"); err != nil {
		return nil, err
	}
	var out []model.Violation
	for _, d := range snap.Dishes {
		if d.Name == nil {
			continue
		}
		if !IsTitleCase(*d.Name) {
			out = append(out, model.Violation{"dish_id": d.ID, "name": *d.Name})
		}
	}
	sortByID(out, "dish_id")
	return out, nil
}
