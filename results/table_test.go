package results

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"

	"github.com/domino14/towers/solver"
)

func TestUpsertIdempotent(t *testing.T) {
	is := is.New(t)
	tb := NewTable()
	tb.Upsert(5, solver.Recursive, 0.5, 0.05)
	tb.Upsert(5, solver.Iterative, 0.01, 0.001)
	tb.Upsert(5, solver.Iterative, 0.02, 0.002)

	is.Equal(tb.Len(), 1)
	row, ok := tb.Get(5)
	is.True(ok)
	is.Equal(row.Moves, uint64(31))
	is.Equal(row.Iterative, Timing{Mean: 0.02, StdDev: 0.002, Measured: true})
	is.Equal(row.Recursive, Timing{Mean: 0.5, StdDev: 0.05, Measured: true})
}

func TestUpsertLeavesOtherSlotUnmeasured(t *testing.T) {
	is := is.New(t)
	tb := NewTable()
	tb.Upsert(5, solver.Iterative, 0.01, 0.001)
	row, ok := tb.Get(5)
	is.True(ok)
	is.True(!row.Recursive.Measured)
	is.True(row.Timing(solver.Iterative).Measured)
	_, ok = tb.Get(6)
	is.True(!ok)
}

func TestRowsOrderedBySize(t *testing.T) {
	is := is.New(t)
	tb := NewTable()
	for _, n := range []int{12, 10, 11, 3, 12} {
		tb.Upsert(n, solver.Recursive, 1, 0)
	}
	is.Equal(tb.Sizes(), []int{3, 10, 11, 12})
}

func TestConcurrentUpsert(t *testing.T) {
	is := is.New(t)
	tb := NewTable()
	var wg sync.WaitGroup
	for _, kind := range solver.Kinds {
		wg.Add(1)
		go func(kind solver.Kind) {
			defer wg.Done()
			for n := 1; n <= 50; n++ {
				tb.Upsert(n, kind, float64(n), 0)
			}
		}(kind)
	}
	wg.Wait()
	is.Equal(tb.Len(), 50)
	for _, r := range tb.Rows() {
		is.True(r.Recursive.Measured)
		is.True(r.Iterative.Measured)
	}
}

func sampleTable() *Table {
	tb := NewTable()
	tb.Upsert(2, solver.Recursive, 0.000001234, 0.0000001)
	tb.Upsert(2, solver.Iterative, 0.000002, 0)
	tb.Upsert(3, solver.Recursive, 1.5, 0.25)
	return tb
}

func TestWriteCSV(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(sampleTable().WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(lines, []string{
		"n,mouvements,temps_rec_moy,temps_rec_std,temps_iter_moy,temps_iter_std",
		"2,3,0.000001234,0.000000100,0.000002000,0.000000000",
		"3,7,1.500000000,0.250000000,,",
	})
}

func TestWriteYAML(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(sampleTable().WriteYAML(&buf))

	var decoded []yamlRow
	is.NoErr(yaml.Unmarshal(buf.Bytes(), &decoded))
	is.Equal(len(decoded), 2)
	is.Equal(decoded[1].Moves, uint64(7))
	is.Equal(decoded[1].Iterative, nil)
	is.Equal(decoded[1].Recursive.Mean, 1.5)
}

func TestWriteSQLite(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "bench.db")
	ctx := context.Background()
	tb := sampleTable()
	is.NoErr(tb.WriteSQLite(ctx, path))
	// A second write replaces the table rather than appending.
	is.NoErr(tb.WriteFile(ctx, path))

	db, err := sql.Open("sqlite", path)
	is.NoErr(err)
	defer db.Close()

	var count int
	is.NoErr(db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&count))
	is.Equal(count, 2)

	var moves int64
	var recMean, iterMean sql.NullFloat64
	is.NoErr(db.QueryRow(`SELECT mouvements, temps_rec_moy, temps_iter_moy FROM results WHERE n = 3`).
		Scan(&moves, &recMean, &iterMean))
	is.Equal(moves, int64(7))
	is.Equal(recMean.Float64, 1.5)
	is.True(!iterMean.Valid)
}

func TestWriteFilePicksFormat(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	ctx := context.Background()
	tb := sampleTable()

	csvPath := filepath.Join(dir, "hanoi_benchmark.csv")
	is.NoErr(tb.WriteFile(ctx, csvPath))
	data, err := os.ReadFile(csvPath)
	is.NoErr(err)
	is.True(strings.HasPrefix(string(data), "n,mouvements,"))

	yamlPath := filepath.Join(dir, "hanoi_benchmark.yaml")
	is.NoErr(tb.WriteFile(ctx, yamlPath))
	data, err = os.ReadFile(yamlPath)
	is.NoErr(err)
	is.True(strings.HasPrefix(string(data), "- n: 2"))
}
