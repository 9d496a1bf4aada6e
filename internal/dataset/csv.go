package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/menuscan/menuscan/internal/model"
)

// csvFiles maps each table to its file name inside a dataset directory.
var csvFiles = map[model.Table]string{
	model.TableMenu:     "Menu.csv",
	model.TableMenuPage: "MenuPage.csv",
	model.TableMenuItem: "MenuItem.csv",
	model.TableDish:     "Dish.csv",
}

// LoadCSVDir reads a snapshot from a directory of CSV exports. Each of
// the four files is optional: a missing file marks its table absent in
// the snapshot rather than failing the load. A file that exists but
// cannot be read or parsed as CSV fails the whole load, since that is
// an inability to read the snapshot, not a data-quality finding.
func LoadCSVDir(ctx context.Context, dir, label string) (*model.Snapshot, error) {
	snap := model.NewSnapshot(label)

	for _, t := range model.Tables {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		path := filepath.Join(dir, csvFiles[t])
		f, err := os.Open(path) //nolint:gosec // Dataset path comes from the user by design
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("open %s: %w", path, err)
		}

		cols, err := loadCSVTable(snap, t, f)
		closeErr := f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("close %s: %w", path, closeErr)
		}
		snap.MarkTable(t, cols...)
	}

	return snap, nil
}

// loadCSVTable reads one table's rows from r and appends them to the
// snapshot. It returns the column names found in the header so the
// snapshot can record which columns were actually present.
func loadCSVTable(snap *model.Snapshot, t model.Table, r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			// Header-less empty file: the table exists with zero rows
			// and zero known columns.
			return nil, nil
		}
		return nil, err
	}

	idx := make(map[string]int, len(header))
	cols := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		idx[name] = i
		cols = append(cols, name)
	}

	// field returns the named column of the current record, "" when the
	// column is absent or the record is short.
	field := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			return cols, nil
		}
		if err != nil {
			return nil, err
		}

		id, ok := parseInt(field(record, "id"))
		if !ok {
			// A row without a usable id cannot be referenced or
			// reported; skip it.
			continue
		}

		switch t {
		case model.TableMenu:
			menu := model.Menu{
				ID:       id,
				Name:     field(record, "name"),
				Location: field(record, "location"),
				Date:     datePtr(parseDate(field(record, "date"))),
			}
			if n, ok := parseInt(field(record, "page_count")); ok {
				menu.PageCount = n
			}
			if n, ok := parseInt(field(record, "dish_count")); ok {
				menu.DishCount = n
			}
			snap.Menus = append(snap.Menus, menu)

		case model.TableMenuPage:
			snap.MenuPages = append(snap.MenuPages, model.MenuPage{
				ID:         id,
				MenuID:     intPtr(parseInt(field(record, "menu_id"))),
				PageNumber: intPtr(parseInt(field(record, "page_number"))),
			})

		case model.TableMenuItem:
			snap.MenuItems = append(snap.MenuItems, model.MenuItem{
				ID:         id,
				MenuPageID: intPtr(parseInt(field(record, "menu_page_id"))),
				DishID:     intPtr(parseInt(field(record, "dish_id"))),
				Price:      floatPtr(parseFloat(field(record, "price"))),
			})

		case model.TableDish:
			dish := model.Dish{
				ID:        id,
				PriceLow:  floatPtr(parseFloat(field(record, "price_low"))),
				PriceHigh: floatPtr(parseFloat(field(record, "price_high"))),
			}
			if _, ok := idx["name"]; ok {
				name := field(record, "name")
				dish.Name = &name
			}
			if n, ok := parseInt(field(record, "times_appeared")); ok {
				dish.TimesAppeared = n
			}
			snap.Dishes = append(snap.Dishes, dish)
		}
	}
}
