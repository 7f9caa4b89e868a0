package pagination

import (
	"testing"

	"repobrowser/framework/reactive"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func newPager(t *testing.T, items *reactive.Ref[[]int], size int) *Pager[int] {
	t.Helper()

	pager, err := New[int](items, size)
	require.NoError(t, err)
	return pager
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New[int](reactive.NewRef(numbers(3)), 0)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New[int](reactive.NewRef(numbers(3)), -4)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New[int](nil, DefaultPageSize)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTotalPagesIsCeilOfLength(t *testing.T) {
	for length := 0; length <= 45; length++ {
		for size := 1; size <= 12; size++ {
			pager := newPager(t, reactive.NewRef(numbers(length)), size)
			want := (length + size - 1) / size
			assert.Equalf(t, want, pager.TotalPages(), "len=%d size=%d", length, size)
		}
	}
}

func TestWindowSizes(t *testing.T) {
	const length, size = 47, 10
	pager := newPager(t, reactive.NewRef(numbers(length)), size)

	for page := 1; page <= pager.TotalPages(); page++ {
		require.Equal(t, page, pager.CurrentPage())
		if page < pager.TotalPages() {
			assert.Len(t, pager.Items(), size)
		} else {
			assert.Len(t, pager.Items(), length-(pager.TotalPages()-1)*size)
		}
		pager.NextPage()
	}
}

func TestTwentyFiveItems(t *testing.T) {
	pager := newPager(t, reactive.NewRef(numbers(25)), DefaultPageSize)

	require.Equal(t, 3, pager.TotalPages())
	assert.Equal(t, numbers(10), pager.Items())

	pager.NextPage()
	assert.Equal(t, 2, pager.CurrentPage())
	assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, pager.Items())

	pager.NextPage()
	assert.Equal(t, 3, pager.CurrentPage())
	assert.Equal(t, []int{21, 22, 23, 24, 25}, pager.Items())

	pager.NextPage()
	pager.NextPage()
	assert.Equal(t, 3, pager.CurrentPage())
	assert.False(t, pager.HasNext())
}

func TestEmptyList(t *testing.T) {
	pager := newPager(t, reactive.NewRef([]int{}), DefaultPageSize)

	assert.Equal(t, 0, pager.TotalPages())
	assert.Empty(t, pager.Items())

	pager.NextPage()
	assert.Equal(t, 1, pager.CurrentPage())
	pager.PrevPage()
	assert.Equal(t, 1, pager.CurrentPage())
}

func TestPrevPageStopsAtFirstPage(t *testing.T) {
	pager := newPager(t, reactive.NewRef(numbers(30)), DefaultPageSize)

	pager.NextPage()
	pager.PrevPage()
	assert.Equal(t, 1, pager.CurrentPage())

	pager.PrevPage()
	assert.Equal(t, 1, pager.CurrentPage())
	assert.False(t, pager.HasPrev())
}

func TestShrinkingListDoesNotClampCurrentPage(t *testing.T) {
	items := reactive.NewRef(numbers(30))
	pager := newPager(t, items, DefaultPageSize)
	pager.NextPage()
	pager.NextPage()
	require.Equal(t, 3, pager.CurrentPage())

	items.Set(numbers(5))

	assert.Equal(t, 1, pager.TotalPages())
	assert.Equal(t, 3, pager.CurrentPage())
	assert.Empty(t, pager.Items())

	pager.NextPage()
	assert.Equal(t, 3, pager.CurrentPage())

	pager.PrevPage()
	pager.PrevPage()
	assert.Equal(t, numbers(5), pager.Items())
}

func TestGrowingListIsVisibleWithoutRebuild(t *testing.T) {
	items := reactive.NewRef(numbers(10))
	pager := newPager(t, items, DefaultPageSize)

	pager.NextPage()
	assert.Equal(t, 1, pager.CurrentPage())

	items.Update(func(current []int) []int { return append(current, 11, 12) })
	assert.Equal(t, 2, pager.TotalPages())

	pager.NextPage()
	assert.Equal(t, []int{11, 12}, pager.Items())
}

func TestOnPageChangeObservesNavigation(t *testing.T) {
	pager := newPager(t, reactive.NewRef(numbers(25)), DefaultPageSize)

	var pages []int
	unsubscribe := pager.OnPageChange(func(page int) { pages = append(pages, page) })

	pager.NextPage()
	pager.NextPage()
	pager.NextPage()
	pager.PrevPage()
	unsubscribe()
	pager.PrevPage()

	assert.Equal(t, []int{2, 3, 2}, pages)
}

func TestSeekStopsAtBounds(t *testing.T) {
	pager := newPager(t, reactive.NewRef(numbers(25)), DefaultPageSize)

	pager.Seek(2)
	assert.Equal(t, 2, pager.CurrentPage())

	pager.Seek(99)
	assert.Equal(t, 3, pager.CurrentPage())

	pager.Seek(-1)
	assert.Equal(t, 1, pager.CurrentPage())
}
