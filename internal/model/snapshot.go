package model

// Table identifies one of the four dataset tables.
type Table string

// The four tables of the menu dataset.
const (
	TableMenu     Table = "Menu"
	TableMenuPage Table = "MenuPage"
	TableMenuItem Table = "MenuItem"
	TableDish     Table = "Dish"
)

// Tables lists all tables in their canonical order.
var Tables = []Table{TableMenu, TableMenuPage, TableMenuItem, TableDish}

// CanonicalColumns maps each table to the column set a complete snapshot
// carries. Loaders use it to record which columns were actually present
// in the source so constraints can report UNAVAILABLE instead of silently
// passing on data that was never loaded.
var CanonicalColumns = map[Table][]string{
	TableMenu:     {"id", "name", "date", "location", "page_count", "dish_count"},
	TableMenuPage: {"id", "menu_id", "page_number"},
	TableMenuItem: {"id", "menu_page_id", "dish_id", "price"},
	TableDish:     {"id", "name", "price_low", "price_high", "times_appeared"},
}

// Snapshot is an immutable, in-memory copy of the four tables at one
// point in time. The validator only ever reads it; two independently
// loaded snapshots (original and cleaned) coexist for comparison.
//
// Design decision: presence of tables and columns is tracked explicitly
// rather than inferred from empty slices, because "the MenuItem table
// loaded with zero rows" and "the MenuItem table does not exist" lead to
// different constraint results (empty set vs UNAVAILABLE).
type Snapshot struct {
	// Label names the snapshot in reports ("original", "cleaned", or a
	// file path).
	Label string

	Menus     []Menu
	MenuPages []MenuPage
	MenuItems []MenuItem
	Dishes    []Dish

	present map[Table]bool
	columns map[Table]map[string]bool
}

// NewSnapshot creates an empty snapshot with no tables marked present.
func NewSnapshot(label string) *Snapshot {
	return &Snapshot{
		Label:   label,
		present: make(map[Table]bool),
		columns: make(map[Table]map[string]bool),
	}
}

// MarkTable records that a table was loaded with the given columns.
// Passing no columns marks the table's full canonical column set, which
// is the common case for in-memory snapshots built by tests and tools.
func (s *Snapshot) MarkTable(t Table, cols ...string) {
	s.present[t] = true
	if len(cols) == 0 {
		cols = CanonicalColumns[t]
	}
	m := s.columns[t]
	if m == nil {
		m = make(map[string]bool, len(cols))
		s.columns[t] = m
	}
	for _, c := range cols {
		m[c] = true
	}
}

// Has reports whether the table was loaded into this snapshot.
func (s *Snapshot) Has(t Table) bool {
	return s.present[t]
}

// HasColumns reports whether the table was loaded with all named columns.
func (s *Snapshot) HasColumns(t Table, cols ...string) bool {
	if !s.present[t] {
		return false
	}
	for _, c := range cols {
		if !s.columns[t][c] {
			return false
		}
	}
	return true
}

// RowCount returns the number of rows loaded for a table.
// Absent tables report zero rows.
func (s *Snapshot) RowCount(t Table) int {
	switch t {
	case TableMenu:
		return len(s.Menus)
	case TableMenuPage:
		return len(s.MenuPages)
	case TableMenuItem:
		return len(s.MenuItems)
	case TableDish:
		return len(s.Dishes)
	default:
		return 0
	}
}

// MenuIDSet returns the set of Menu.ID values for membership tests.
func (s *Snapshot) MenuIDSet() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(s.Menus))
	for _, m := range s.Menus {
		ids[m.ID] = struct{}{}
	}
	return ids
}

// PageIDSet returns the set of MenuPage.ID values.
func (s *Snapshot) PageIDSet() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(s.MenuPages))
	for _, p := range s.MenuPages {
		ids[p.ID] = struct{}{}
	}
	return ids
}

// DishIDSet returns the set of Dish.ID values.
func (s *Snapshot) DishIDSet() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(s.Dishes))
	for _, d := range s.Dishes {
		ids[d.ID] = struct{}{}
	}
	return ids
}

// PageMenuIndex maps MenuPage.ID to its MenuID, used to walk the
// Menu -> MenuPage -> MenuItem chain without nested scans. Pages with
// a null menu_id carry no resolvable reference and are not indexed.
func (s *Snapshot) PageMenuIndex() map[int64]int64 {
	idx := make(map[int64]int64, len(s.MenuPages))
	for _, p := range s.MenuPages {
		if p.MenuID == nil {
			continue
		}
		idx[p.ID] = *p.MenuID
	}
	return idx
}
