// Package dataset loads snapshots of the menu dataset from its two
// distribution formats: a directory of CSV exports (Menu.csv,
// MenuPage.csv, MenuItem.csv, Dish.csv) or a SQLite database with the
// same four tables. Loading is the only I/O in menuscan; the validator
// works purely on the in-memory snapshot.
package dataset
