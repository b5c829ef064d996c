package reward

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeeded(seed uint64) *Resolver {
	return NewResolver(rand.New(rand.NewPCG(seed, seed)))
}

func TestDraw_ConvergesToWeights(t *testing.T) {
	r := newSeeded(42)

	const draws = 100_000
	counts := make(map[int64]int)
	for i := 0; i < draws; i++ {
		counts[r.Draw(SpinTable)]++
	}

	total := 0
	for _, e := range SpinTable {
		total += e.Weight
	}

	for _, e := range SpinTable {
		expected := float64(e.Weight) / float64(total)
		observed := float64(counts[e.Value]) / float64(draws)
		assert.InDelta(t, expected, observed, 0.01,
			"value %d: expected freq %.4f, observed %.4f", e.Value, expected, observed)
	}
}

func TestDraw_OnlyTableValues(t *testing.T) {
	r := newSeeded(7)
	valid := map[int64]bool{5: true, 10: true, 50: true, 150: true}
	for i := 0; i < 10_000; i++ {
		assert.True(t, valid[r.Draw(SpinTable)])
	}
}

func TestDraw_SingleEntry(t *testing.T) {
	r := newSeeded(1)
	table := Table{{Value: 99, Weight: 3}}
	for i := 0; i < 100; i++ {
		assert.Equal(t, int64(99), r.Draw(table))
	}
}

func TestDraw_PanicsOnBadTable(t *testing.T) {
	r := newSeeded(1)
	assert.Panics(t, func() { r.Draw(Table{}) })
	assert.Panics(t, func() { r.Draw(Table{{Value: 1, Weight: 0}}) })
}

func TestAviatorCrash_Bounds(t *testing.T) {
	r := newSeeded(11)
	wins := 0
	const rounds = 50_000
	for i := 0; i < rounds; i++ {
		crash := r.AviatorCrash()
		require.GreaterOrEqual(t, crash, 1.0)
		require.LessOrEqual(t, crash, 7.0)
		if crash >= 2.0 {
			wins++
		}
	}
	// Win probability 0.40 puts the crash at or above 2.0.
	assert.InDelta(t, 0.40, float64(wins)/float64(rounds), 0.01)
}

func TestLimboResult_Bounds(t *testing.T) {
	r := newSeeded(13)
	const target = 2.5
	wins := 0
	const rounds = 50_000
	for i := 0; i < rounds; i++ {
		res := r.LimboResult(target)
		require.GreaterOrEqual(t, res, 1.0)
		require.Less(t, res, 10.0)
		if res >= target {
			wins++
		}
	}
	assert.InDelta(t, 0.42, float64(wins)/float64(rounds), 0.01)
}

func TestLimboResult_ClampsLowTarget(t *testing.T) {
	r := newSeeded(17)
	for i := 0; i < 1_000; i++ {
		res := r.LimboResult(0.5)
		assert.GreaterOrEqual(t, res, 1.0)
	}
}

func TestChickenMultiplier(t *testing.T) {
	tests := []struct {
		name  string
		diff  Difficulty
		steps int
		want  float64
		ok    bool
	}{
		{"easy first step", DifficultyEasy, 1, 1.02, true},
		{"easy last step", DifficultyEasy, 17, 3.20, true},
		{"medium mid", DifficultyMedium, 9, 5.00, true},
		{"hardcore last", DifficultyHardcore, 11, 5000000.00, true},
		{"zero steps", DifficultyEasy, 0, 0, false},
		{"past end", DifficultyHardcore, 12, 0, false},
		{"unknown tier", Difficulty("Nightmare"), 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChickenMultiplier(tt.diff, tt.steps)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestChickenMultipliers_Monotonic(t *testing.T) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyHardcore} {
		prev := 1.0
		for step := 1; step <= ChickenSteps(d); step++ {
			m, ok := ChickenMultiplier(d, step)
			require.True(t, ok)
			assert.Greater(t, m, prev, "%s step %d", d, step)
			prev = m
		}
	}
}

func TestSafeStep_Frequency(t *testing.T) {
	r := newSeeded(23)
	const rounds = 50_000
	safe := 0
	for i := 0; i < rounds; i++ {
		if r.SafeStep(DifficultyHard) {
			safe++
		}
	}
	assert.InDelta(t, 0.60, float64(safe)/float64(rounds), 0.01)
}

func TestMineLayout(t *testing.T) {
	r := newSeeded(29)
	for _, mines := range []int{1, 5, 24} {
		layout := r.MineLayout(mines)
		assert.Len(t, layout, mines)
		for pos := range layout {
			assert.GreaterOrEqual(t, pos, 0)
			assert.Less(t, pos, MinesBoardSize)
		}
	}
}

func TestMineLayout_ClampsMineCount(t *testing.T) {
	r := newSeeded(31)
	assert.Len(t, r.MineLayout(0), 1)
	assert.Len(t, r.MineLayout(30), MaxMines)
}

func TestMinesMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, MinesMultiplier(5, 0))

	// One reveal with 5 mines: 1 + 5/25 = 1.2.
	assert.InDelta(t, 1.2, MinesMultiplier(5, 1), 1e-9)

	// Two reveals: 1.2 * (1 + 5/24).
	assert.InDelta(t, 1.2*(1+5.0/24.0), MinesMultiplier(5, 2), 1e-9)

	// Curve is strictly increasing until the cap.
	prev := 0.0
	for g := 0; g <= 10; g++ {
		m := MinesMultiplier(10, g)
		assert.Greater(t, m, prev)
		prev = m
	}

	// Dense boards hit the cap.
	assert.Equal(t, 100.0, MinesMultiplier(24, 20))
}

func TestPayout(t *testing.T) {
	assert.Equal(t, int64(25), Payout(10, 2.5))
	assert.Equal(t, int64(10), Payout(10, 1.02))
	assert.Equal(t, int64(0), Payout(0, 2.0))
	assert.Equal(t, int64(0), Payout(10, 0))
	assert.Equal(t, int64(math.Floor(37*1.8)), Payout(37, 1.8))
}

func TestResolver_DeterministicUnderSeed(t *testing.T) {
	a := newSeeded(99)
	b := newSeeded(99)
	for i := 0; i < 1_000; i++ {
		assert.Equal(t, a.Draw(SpinTable), b.Draw(SpinTable))
		assert.Equal(t, a.AviatorCrash(), b.AviatorCrash())
	}
}
