package odometer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(bases ...int) [][]int {
	var out [][]int
	for _, combo := range Combinations(bases...) {
		out = append(out, combo)
	}
	return out
}

func TestOdometer_LastDigitFastest(t *testing.T) {
	got := collect(2, 3)
	want := [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	assert.Equal(t, want, got)
}

func TestOdometer_CoversCartesianProduct(t *testing.T) {
	for _, bases := range [][]int{{1}, {4}, {2, 2}, {3, 1, 2}, {2, 3, 4}, {5, 1, 1, 3}} {
		t.Run(fmt.Sprint(bases), func(t *testing.T) {
			o := New(bases...)
			seen := map[string]bool{}
			count := 0
			for ; !o.Done(); o.Next() {
				require.Equal(t, count, o.Index())
				key := fmt.Sprint(o.Current())
				require.False(t, seen[key], "duplicate combination %s", key)
				seen[key] = true
				for i, d := range o.Current() {
					require.GreaterOrEqual(t, d, 0)
					require.Less(t, d, bases[i])
				}
				count++
			}
			assert.Equal(t, o.Len(), count)
			assert.Len(t, seen, o.Len())
		})
	}
}

func TestOdometer_EdgeCases(t *testing.T) {
	t.Run("no positions yields one empty combination", func(t *testing.T) {
		got := collect()
		require.Len(t, got, 1)
		assert.Empty(t, got[0])
		assert.Equal(t, 1, New().Len())
	})

	t.Run("zero base yields nothing", func(t *testing.T) {
		o := New(3, 0, 2)
		assert.True(t, o.Done())
		assert.False(t, o.Next())
		assert.Equal(t, 0, o.Len())
		assert.Empty(t, collect(3, 0, 2))
	})

	t.Run("next after exhaustion stays done", func(t *testing.T) {
		o := New(1)
		assert.False(t, o.Next())
		assert.True(t, o.Done())
		assert.False(t, o.Next())
	})

	t.Run("current is a copy", func(t *testing.T) {
		o := New(2, 2)
		c := o.Current()
		c[0] = 9
		assert.Equal(t, []int{0, 0}, o.Current())
	})

	t.Run("bases are copied", func(t *testing.T) {
		bases := []int{2}
		o := New(bases...)
		bases[0] = 5
		assert.Equal(t, 2, o.Len())
	})
}

func TestCombinations_StopsEarly(t *testing.T) {
	var got []int
	for i := range Combinations(10) {
		if i == 3 {
			break
		}
		got = append(got, i)
	}
	assert.Equal(t, []int{0, 1, 2}, got)
}
