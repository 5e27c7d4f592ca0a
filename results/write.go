package results

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

// Header is the column layout of the written table. Downstream tooling
// depends on these names and their order. A solver that was never measured
// for a size gets empty time fields in CSV (NULL in SQLite), not 0, so a
// reader must accept empty values in the four time columns.
var Header = []string{
	"n", "mouvements",
	"temps_rec_moy", "temps_rec_std",
	"temps_iter_moy", "temps_iter_std",
}

const timePrecision = 9

func formatTime(v float64, measured bool) string {
	if !measured {
		return ""
	}
	return strconv.FormatFloat(v, 'f', timePrecision, 64)
}

func (r Row) record() []string {
	return []string{
		strconv.Itoa(r.N),
		strconv.FormatUint(r.Moves, 10),
		formatTime(r.Recursive.Mean, r.Recursive.Measured),
		formatTime(r.Recursive.StdDev, r.Recursive.Measured),
		formatTime(r.Iterative.Mean, r.Iterative.Measured),
		formatTime(r.Iterative.StdDev, r.Iterative.Measured),
	}
}

// WriteCSV writes the header and one line per row. Slots that were never
// measured are left empty.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range t.Rows() {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type yamlTiming struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std"`
}

type yamlRow struct {
	N         int         `yaml:"n"`
	Moves     uint64      `yaml:"moves"`
	Recursive *yamlTiming `yaml:"recursive,omitempty"`
	Iterative *yamlTiming `yaml:"iterative,omitempty"`
}

func toYAMLTiming(t Timing) *yamlTiming {
	if !t.Measured {
		return nil
	}
	return &yamlTiming{Mean: t.Mean, StdDev: t.StdDev}
}

// WriteYAML writes the rows as a YAML list.
func (t *Table) WriteYAML(w io.Writer) error {
	rows := t.Rows()
	out := make([]yamlRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, yamlRow{
			N:         r.N,
			Moves:     r.Moves,
			Recursive: toYAMLTiming(r.Recursive),
			Iterative: toYAMLTiming(r.Iterative),
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func nullable(v float64, measured bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: measured}
}

// WriteSQLite stores the rows in a "results" table of the SQLite database
// at path, replacing whatever was there. Unmeasured slots are NULL.
func (t *Table) WriteSQLite(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`DROP TABLE IF EXISTS results`,
		`CREATE TABLE results (
			n INTEGER PRIMARY KEY,
			mouvements INTEGER NOT NULL,
			temps_rec_moy REAL,
			temps_rec_std REAL,
			temps_iter_moy REAL,
			temps_iter_std REAL
		)`,
	}
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("preparing results table: %w", err)
		}
	}
	ins, err := tx.PrepareContext(ctx, `INSERT INTO results (`+strings.Join(Header, ", ")+
		`) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ins.Close()
	for _, r := range t.Rows() {
		// SQLite integers are signed; the largest count fits for n <= 63.
		_, err := ins.ExecContext(ctx, r.N, int64(r.Moves),
			nullable(r.Recursive.Mean, r.Recursive.Measured),
			nullable(r.Recursive.StdDev, r.Recursive.Measured),
			nullable(r.Iterative.Mean, r.Iterative.Measured),
			nullable(r.Iterative.StdDev, r.Iterative.Measured))
		if err != nil {
			return fmt.Errorf("inserting row n=%d: %w", r.N, err)
		}
	}
	return tx.Commit()
}

// WriteFile picks the output format from the file extension: .yaml/.yml,
// .db/.sqlite, anything else is CSV.
func (t *Table) WriteFile(ctx context.Context, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	log.Debug().Str("path", path).Str("ext", ext).Int("rows", t.Len()).Msg("writing-results")
	switch ext {
	case ".db", ".sqlite", ".sqlite3":
		return t.WriteSQLite(ctx, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch ext {
	case ".yaml", ".yml":
		err = t.WriteYAML(f)
	default:
		err = t.WriteCSV(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
