package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/menuscan/menuscan/internal/model"
)

// writeCSVDataset writes the given files into a temp dataset directory.
func writeCSVDataset(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatalf("failed to write fixture %s: %v", name, err)
		}
	}
	return dir
}

// fullCSVDataset returns fixture files covering all four tables.
func fullCSVDataset() map[string]string {
	return map[string]string{
		"Menu.csv": "id,name,date,location,page_count,dish_count\n" +
			"1,Dinner,1900-04-15,The Modern,1,2\n" +
			"2,Lunch,,Cafe Royal,1,0\n",
		"MenuPage.csv": "id,menu_id,page_number\n" +
			"10,1,1\n" +
			"11,2,\n",
		"MenuItem.csv": "id,menu_page_id,dish_id,price\n" +
			"100,10,1000,0.40\n" +
			"101,10,1001,\n",
		"Dish.csv": "id,name,price_low,price_high,times_appeared\n" +
			"1000,Oysters Rockefeller,0.30,0.50,12\n" +
			"1001,Consomme,0.50,0.70,3\n",
	}
}

// TestLoadCSVDir tests loading a complete CSV dataset.
func TestLoadCSVDir(t *testing.T) {
	t.Parallel()

	dir := writeCSVDataset(t, fullCSVDataset())

	snap, err := LoadCSVDir(context.Background(), dir, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Label != "test" {
		t.Errorf("expected label 'test', got %q", snap.Label)
	}
	for _, table := range model.Tables {
		if !snap.Has(table) {
			t.Errorf("expected table %s to be present", table)
		}
	}
	if len(snap.Menus) != 2 || len(snap.MenuPages) != 2 || len(snap.MenuItems) != 2 || len(snap.Dishes) != 2 {
		t.Errorf("unexpected row counts: %d menus, %d pages, %d items, %d dishes",
			len(snap.Menus), len(snap.MenuPages), len(snap.MenuItems), len(snap.Dishes))
	}

	menu := snap.Menus[0]
	if menu.ID != 1 || menu.Name != "Dinner" || menu.PageCount != 1 || menu.DishCount != 2 {
		t.Errorf("unexpected first menu %+v", menu)
	}
	if menu.Date == nil || menu.Date.Year() != 1900 {
		t.Errorf("expected 1900 date, got %v", menu.Date)
	}
	if snap.Menus[1].Date != nil {
		t.Errorf("expected nil date for empty field, got %v", snap.Menus[1].Date)
	}

	if snap.MenuItems[1].Price != nil {
		t.Errorf("expected nil price for empty field, got %v", *snap.MenuItems[1].Price)
	}
	if snap.MenuPages[1].PageNumber != nil {
		t.Errorf("expected nil page number for empty field, got %v", *snap.MenuPages[1].PageNumber)
	}

	dish := snap.Dishes[0]
	if dish.Name == nil || *dish.Name != "Oysters Rockefeller" {
		t.Errorf("unexpected dish name %v", dish.Name)
	}
	if dish.PriceLow == nil || *dish.PriceLow != 0.30 {
		t.Errorf("unexpected price_low %v", dish.PriceLow)
	}
	if dish.TimesAppeared != 12 {
		t.Errorf("expected times_appeared 12, got %d", dish.TimesAppeared)
	}
}

// TestLoadCSVDirMissingFile tests that a missing file marks the table
// absent instead of failing the load.
func TestLoadCSVDirMissingFile(t *testing.T) {
	t.Parallel()

	files := fullCSVDataset()
	delete(files, "Dish.csv")
	dir := writeCSVDataset(t, files)

	snap, err := LoadCSVDir(context.Background(), dir, "partial")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Has(model.TableDish) {
		t.Error("expected Dish table to be absent")
	}
	if !snap.Has(model.TableMenu) {
		t.Error("expected Menu table to be present")
	}
	if snap.RowCount(model.TableDish) != 0 {
		t.Errorf("expected 0 dish rows, got %d", snap.RowCount(model.TableDish))
	}
}

// TestLoadCSVDirMalformedValues tests that malformed numerics parse to
// null, never zero, and that the row itself survives.
func TestLoadCSVDirMalformedValues(t *testing.T) {
	t.Parallel()

	dir := writeCSVDataset(t, map[string]string{
		"MenuItem.csv": "id,menu_page_id,dish_id,price\n" +
			"1,10,1000,not-a-number\n" +
			"2,10,1000,0.25\n",
		"Menu.csv": "id,name,date,location,page_count,dish_count\n" +
			"1,Dinner,never,Somewhere,bogus,2\n",
	})

	snap, err := LoadCSVDir(context.Background(), dir, "malformed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.MenuItems) != 2 {
		t.Fatalf("expected 2 items, got %d", len(snap.MenuItems))
	}
	if snap.MenuItems[0].Price != nil {
		t.Errorf("expected malformed price to be nil, got %v", *snap.MenuItems[0].Price)
	}
	if snap.MenuItems[1].Price == nil || *snap.MenuItems[1].Price != 0.25 {
		t.Errorf("expected valid price 0.25, got %v", snap.MenuItems[1].Price)
	}

	menu := snap.Menus[0]
	if menu.Date != nil {
		t.Errorf("expected malformed date to be nil, got %v", menu.Date)
	}
	if menu.PageCount != 0 {
		t.Errorf("expected malformed count to stay zero-valued, got %d", menu.PageCount)
	}
}

// TestLoadCSVDirNullForeignKeys tests that empty or malformed
// foreign-key cells load as null, never as a reference to row 0.
func TestLoadCSVDirNullForeignKeys(t *testing.T) {
	t.Parallel()

	dir := writeCSVDataset(t, map[string]string{
		"MenuPage.csv": "id,menu_id,page_number\n" +
			"10,,1\n" +
			"11,2,1\n",
		"MenuItem.csv": "id,menu_page_id,dish_id,price\n" +
			"36,10,,0.40\n" +
			"37,,garbage,0.50\n",
	})

	snap, err := LoadCSVDir(context.Background(), dir, "null-fks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.MenuPages[0].MenuID != nil {
		t.Errorf("expected nil menu_id for empty cell, got %v", *snap.MenuPages[0].MenuID)
	}
	if snap.MenuPages[1].MenuID == nil || *snap.MenuPages[1].MenuID != 2 {
		t.Errorf("expected menu_id 2, got %v", snap.MenuPages[1].MenuID)
	}
	if snap.MenuItems[0].DishID != nil {
		t.Errorf("expected nil dish_id for empty cell, got %v", *snap.MenuItems[0].DishID)
	}
	if snap.MenuItems[0].MenuPageID == nil || *snap.MenuItems[0].MenuPageID != 10 {
		t.Errorf("expected menu_page_id 10, got %v", snap.MenuItems[0].MenuPageID)
	}
	if snap.MenuItems[1].MenuPageID != nil || snap.MenuItems[1].DishID != nil {
		t.Errorf("expected nil keys for item 37, got %+v", snap.MenuItems[1])
	}
}

// TestLoadCSVDirIntegralFloats tests that counts exported as "5.0"
// parse as integers.
func TestLoadCSVDirIntegralFloats(t *testing.T) {
	t.Parallel()

	dir := writeCSVDataset(t, map[string]string{
		"Menu.csv": "id,name,date,location,page_count,dish_count\n" +
			"1,Dinner,,Somewhere,5.0,3.0\n",
	})

	snap, err := LoadCSVDir(context.Background(), dir, "floats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Menus[0].PageCount != 5 || snap.Menus[0].DishCount != 3 {
		t.Errorf("expected counts 5 and 3, got %d and %d", snap.Menus[0].PageCount, snap.Menus[0].DishCount)
	}
}

// TestLoadCSVDirMissingColumns tests that a file without a column marks
// the column absent in the snapshot.
func TestLoadCSVDirMissingColumns(t *testing.T) {
	t.Parallel()

	dir := writeCSVDataset(t, map[string]string{
		"Dish.csv": "id,times_appeared\n" +
			"1,4\n",
	})

	snap, err := LoadCSVDir(context.Background(), dir, "no-names")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !snap.Has(model.TableDish) {
		t.Fatal("expected Dish table to be present")
	}
	if snap.HasColumns(model.TableDish, "name") {
		t.Error("expected name column to be absent")
	}
	if !snap.HasColumns(model.TableDish, "id", "times_appeared") {
		t.Error("expected id and times_appeared columns to be present")
	}
	if snap.Dishes[0].Name != nil {
		t.Errorf("expected nil name when column is absent, got %v", *snap.Dishes[0].Name)
	}
}

// TestLoadCSVDirSkipsRowsWithoutID tests that unreferencable rows are
// dropped.
func TestLoadCSVDirSkipsRowsWithoutID(t *testing.T) {
	t.Parallel()

	dir := writeCSVDataset(t, map[string]string{
		"Dish.csv": "id,name\n" +
			",Nameless\n" +
			"7,Kept\n",
	})

	snap, err := LoadCSVDir(context.Background(), dir, "ids")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Dishes) != 1 || snap.Dishes[0].ID != 7 {
		t.Errorf("expected only dish 7, got %+v", snap.Dishes)
	}
}

// TestLoad tests the format dispatch.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("dispatches directories to the CSV loader", func(t *testing.T) {
		t.Parallel()

		dir := writeCSVDataset(t, fullCSVDataset())
		snap, err := Load(context.Background(), dir, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.Label != dir {
			t.Errorf("expected the path as default label, got %q", snap.Label)
		}
	})

	t.Run("returns ErrNotFound for missing paths", func(t *testing.T) {
		t.Parallel()

		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), "x")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects unknown file formats", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.txt")
		if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(context.Background(), path, "x"); err == nil {
			t.Error("expected an error for unsupported format")
		}
	})
}
