package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/menuscan/menuscan/internal/model"
)

// LoadSQLite reads a snapshot from a SQLite database holding the four
// tables. The database is opened read-only; a validation run never
// writes to its source. A table missing from the schema marks that
// table absent in the snapshot; failing to open the file, or a query
// error on a table that exists, fails the whole load.
func LoadSQLite(ctx context.Context, path, label string) (*model.Snapshot, error) {
	// mode=ro refuses to create the file and blocks accidental writes.
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open dataset database: %w", err)
	}
	defer db.Close()

	// The loader is sequential; one connection is all it uses.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("open dataset database %s: %w", path, err)
	}

	existing, err := existingTables(ctx, db)
	if err != nil {
		return nil, err
	}

	snap := model.NewSnapshot(label)
	for _, t := range model.Tables {
		if !existing[string(t)] {
			continue
		}
		cols, err := loadSQLiteTable(ctx, db, snap, t)
		if err != nil {
			return nil, fmt.Errorf("load table %s: %w", t, err)
		}
		snap.MarkTable(t, cols...)
	}
	return snap, nil
}

// existingTables returns the set of table names present in the schema.
func existingTables(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	defer rows.Close()

	tables := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables[name] = true
	}
	return tables, rows.Err()
}

// loadSQLiteTable reads all rows of one table into the snapshot. Every
// column scans as nullable text and parses leniently, so a malformed
// numeric cell becomes null for that row instead of aborting the load.
// Returns the column names the table actually has.
func loadSQLiteTable(ctx context.Context, db *sql.DB, snap *model.Snapshot, t model.Table) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+string(t)) //nolint:gosec // Table names come from a fixed list
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(header))
	cols := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.ToLower(name)
		idx[name] = i
		cols = append(cols, name)
	}

	values := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range values {
		dest[i] = &values[i]
	}

	field := func(name string) string {
		i, ok := idx[name]
		if !ok || !values[i].Valid {
			return ""
		}
		return values[i].String
	}
	hasColumn := func(name string) bool {
		i, ok := idx[name]
		return ok && values[i].Valid
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		id, ok := parseInt(field("id"))
		if !ok {
			continue
		}

		switch t {
		case model.TableMenu:
			menu := model.Menu{
				ID:       id,
				Name:     field("name"),
				Location: field("location"),
				Date:     datePtr(parseDate(field("date"))),
			}
			if n, ok := parseInt(field("page_count")); ok {
				menu.PageCount = n
			}
			if n, ok := parseInt(field("dish_count")); ok {
				menu.DishCount = n
			}
			snap.Menus = append(snap.Menus, menu)

		case model.TableMenuPage:
			snap.MenuPages = append(snap.MenuPages, model.MenuPage{
				ID:         id,
				MenuID:     intPtr(parseInt(field("menu_id"))),
				PageNumber: intPtr(parseInt(field("page_number"))),
			})

		case model.TableMenuItem:
			snap.MenuItems = append(snap.MenuItems, model.MenuItem{
				ID:         id,
				MenuPageID: intPtr(parseInt(field("menu_page_id"))),
				DishID:     intPtr(parseInt(field("dish_id"))),
				Price:      floatPtr(parseFloat(field("price"))),
			})

		case model.TableDish:
			dish := model.Dish{
				ID:        id,
				PriceLow:  floatPtr(parseFloat(field("price_low"))),
				PriceHigh: floatPtr(parseFloat(field("price_high"))),
			}
			if hasColumn("name") {
				name := field("name")
				dish.Name = &name
			}
			if n, ok := parseInt(field("times_appeared")); ok {
				dish.TimesAppeared = n
			}
			snap.Dishes = append(snap.Dishes, dish)
		}
	}
	return cols, rows.Err()
}
