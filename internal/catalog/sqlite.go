// Public domain.

package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	_ "modernc.org/sqlite"
)

var rxTable = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkTable(table string) error {
	if !rxTable.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// sqliteColumns finds the catalog columns of table, by the same names
// accepted in CSV headings.
func sqliteColumns(db *sql.DB, table string) (csvColumns, []string, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return csvColumns{}, nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return csvColumns{}, nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return csvColumns{}, nil, err
	}
	if len(names) == 0 {
		return csvColumns{}, nil, fmt.Errorf("no table %q", table)
	}
	c, err := parseHeading(names)
	return c, names, err
}

func readSQLite(path, table string, b *builder) error {
	if err := checkTable(table); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	// opening a missing file would create an empty database
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	cols, names, err := sqliteColumns(db, table)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	quote := func(n string) string { return `"` + strings.ReplaceAll(n, `"`, `""`) + `"` }
	sel := []string{"rowid", quote(names[cols.ra]), quote(names[cols.dec])}
	if cols.id >= 0 {
		sel[0] = quote(names[cols.id])
	}
	if cols.dist >= 0 {
		sel = append(sel, quote(names[cols.dist]))
	}
	q := fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid`, strings.Join(sel, ", "), table)
	rows, err := db.Query(q)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer rows.Close()
	for n := 1; rows.Next(); n++ {
		var (
			r    = record{location: fmt.Sprintf("%s: %s row %d", path, table, n)}
			dist sql.NullFloat64
			dest = []any{&r.id, &r.ra, &r.dec}
		)
		if cols.dist >= 0 {
			dest = append(dest, &dist)
		}
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("%s: %w", r.location, err)
		}
		r.dist, r.hasDist = dist.Float64, dist.Valid
		if err := b.add(r); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func writeSQLite(path, table string, rs []record) (err error) {
	if err := checkTable(table); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf(`CREATE TABLE %s (
		id TEXT NOT NULL,
		ra REAL NOT NULL,
		dec REAL NOT NULL,
		dist REAL
	)`, table)); err != nil {
		return err
	}
	st, err := tx.Prepare(fmt.Sprintf(`INSERT INTO %s (id, ra, dec, dist) VALUES (?, ?, ?, ?)`, table))
	if err != nil {
		return err
	}
	defer st.Close()
	for _, r := range rs {
		dist := sql.NullFloat64{Float64: r.dist, Valid: r.hasDist}
		if _, err := st.Exec(r.id, r.ra, r.dec, dist); err != nil {
			return err
		}
	}
	return tx.Commit()
}
