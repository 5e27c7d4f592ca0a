package solver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/towers/move"
)

var pegs = []move.Peg{move.PegA, move.PegB, move.PegC}

func randomPegs() (move.Peg, move.Peg, move.Peg) {
	p := frand.Perm(3)
	return pegs[p[0]], pegs[p[1]], pegs[p[2]]
}

func record(t *testing.T, kind Kind, n int, from, to, via move.Peg) []move.Move {
	t.Helper()
	r := &move.Recorder{}
	if err := Solve(kind, n, from, to, via, r); err != nil {
		t.Fatalf("solve %v n=%d: %v", kind, n, err)
	}
	return r.Moves
}

func TestSameSequence(t *testing.T) {
	is := is.New(t)
	for n := 0; n <= 12; n++ {
		from, to, via := randomPegs()
		rec := record(t, Recursive, n, from, to, via)
		iter := record(t, Iterative, n, from, to, via)
		is.Equal(len(rec), len(iter))
		is.Equal(rec, iter)
	}
}

func TestSmallSequence(t *testing.T) {
	is := is.New(t)
	expected := []move.Move{
		{Disk: 1, From: 'A', To: 'C'},
		{Disk: 2, From: 'A', To: 'B'},
		{Disk: 1, From: 'C', To: 'B'},
		{Disk: 3, From: 'A', To: 'C'},
		{Disk: 1, From: 'B', To: 'A'},
		{Disk: 2, From: 'B', To: 'C'},
		{Disk: 1, From: 'A', To: 'C'},
	}
	for _, kind := range Kinds {
		is.Equal(record(t, kind, 3, move.PegA, move.PegC, move.PegB), expected)
	}
}

func TestMoveCount(t *testing.T) {
	is := is.New(t)
	for _, kind := range Kinds {
		for n := 0; n <= 20; n++ {
			c := &move.Counter{}
			is.NoErr(Solve(kind, n, move.PegA, move.PegC, move.PegB, c))
			is.Equal(c.Count(), move.Expected(n))
		}
	}
}

func TestZeroDisksEmitsNothing(t *testing.T) {
	is := is.New(t)
	for _, kind := range Kinds {
		is.Equal(len(record(t, kind, 0, move.PegA, move.PegC, move.PegB)), 0)
	}
}

// Replays the moves on three real pegs and checks every move is legal and
// the whole tower ends up on the destination.
func TestMovesAreLegal(t *testing.T) {
	for _, kind := range Kinds {
		for n := 1; n <= 10; n++ {
			t.Run(fmt.Sprintf("%v/%d", kind, n), func(t *testing.T) {
				is := is.New(t)
				from, to, via := randomPegs()
				towers := map[move.Peg][]int{from: {}, to: {}, via: {}}
				for d := n; d >= 1; d-- {
					towers[from] = append(towers[from], d)
				}
				for _, m := range record(t, kind, n, from, to, via) {
					is.True(m.From != m.To)
					src := towers[m.From]
					is.True(len(src) > 0)
					disk := src[len(src)-1]
					is.Equal(disk, m.Disk)
					dst := towers[m.To]
					if len(dst) > 0 {
						is.True(dst[len(dst)-1] > disk) // larger disk onto smaller
					}
					towers[m.From] = src[:len(src)-1]
					towers[m.To] = append(dst, disk)
				}
				is.Equal(len(towers[to]), n)
				is.Equal(len(towers[from]), 0)
				is.Equal(len(towers[via]), 0)
			})
		}
	}
}

func TestStackDepthBound(t *testing.T) {
	is := is.New(t)
	for n := 0; n <= 25; n++ {
		depth, err := IterativeDepth(n, move.PegA, move.PegC, move.PegB, &move.Counter{})
		is.NoErr(err)
		is.Equal(depth, n)
	}
}

func TestAllocationFailure(t *testing.T) {
	is := is.New(t)
	saved := totalMemory
	defer func() { totalMemory = saved }()
	totalMemory = func() uint64 { return 64 }

	c := &move.Counter{}
	err := Solve(Iterative, 20, move.PegA, move.PegC, move.PegB, c)
	is.True(errors.Is(err, ErrAllocation))
	is.Equal(c.Count(), uint64(0))
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	is.NoErr(Validate(0, 'A', 'C', 'B'))
	is.NoErr(Validate(MaxDisks, 'x', 'y', 'z'))
	is.True(errors.Is(Validate(-1, 'A', 'C', 'B'), ErrInvalidDiskCount))
	is.True(errors.Is(Validate(MaxDisks+1, 'A', 'C', 'B'), ErrInvalidDiskCount))
	is.True(errors.Is(Validate(3, 'A', 'A', 'B'), ErrSamePeg))
	is.True(errors.Is(Validate(3, 'A', 'C', 'C'), ErrSamePeg))
	is.True(errors.Is(Solve(Recursive, 3, 'B', 'C', 'B', &move.Counter{}), ErrSamePeg))
}

func TestParseKind(t *testing.T) {
	is := is.New(t)
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		is.NoErr(err)
		is.Equal(parsed, k)
	}
	_, err := ParseKind("bogo")
	is.True(err != nil)

	ks, err := ParseKinds("both")
	is.NoErr(err)
	is.Equal(ks, Kinds)
	ks, err = ParseKinds("iter")
	is.NoErr(err)
	is.Equal(ks, []Kind{Iterative})
	_, err = ParseKinds("")
	is.True(err != nil)
}

func TestDigestsMatch(t *testing.T) {
	is := is.New(t)
	rec := move.NewDigester()
	iter := move.NewDigester()
	RecursiveSolve(18, move.PegA, move.PegC, move.PegB, rec)
	is.NoErr(IterativeSolve(18, move.PegA, move.PegC, move.PegB, iter))
	is.Equal(rec.Count(), iter.Count())
	is.Equal(rec.Sum64(), iter.Sum64())

	swapped := move.NewDigester()
	RecursiveSolve(18, move.PegA, move.PegB, move.PegC, swapped)
	is.True(swapped.Sum64() != rec.Sum64())
}

func BenchmarkRecursive(b *testing.B) {
	c := &move.Counter{}
	for i := 0; i < b.N; i++ {
		RecursiveSolve(16, move.PegA, move.PegC, move.PegB, c)
	}
}

func BenchmarkIterative(b *testing.B) {
	c := &move.Counter{}
	for i := 0; i < b.N; i++ {
		IterativeSolve(16, move.PegA, move.PegC, move.PegB, c)
	}
}
