package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	p := New(0)

	assert.Equal(t, 1, p.Page())
	assert.Equal(t, DefaultPerPage, p.PerPage())
}

func TestPreviousStopsAtFirstPage(t *testing.T) {
	p := New(10)

	assert.False(t, p.Previous())
	assert.Equal(t, 1, p.Page())

	p.Next(25)
	assert.True(t, p.Previous())
	assert.Equal(t, 1, p.Page())
}

func TestNextStopsAtLastPage(t *testing.T) {
	p := New(10)

	assert.True(t, p.Next(25))
	assert.True(t, p.Next(25))
	assert.Equal(t, 3, p.Page())

	assert.False(t, p.Next(25))
	assert.Equal(t, 3, p.Page())
}

func TestNextOnEmptyOrExactList(t *testing.T) {
	p := New(10)

	assert.False(t, p.Next(0))
	assert.False(t, p.Next(10))
	assert.Equal(t, 1, p.Page())
}

func TestSetPerPageResetsPage(t *testing.T) {
	p := New(10)
	p.Next(30)
	p.Next(30)

	assert.True(t, p.SetPerPage(20))
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, 20, p.PerPage())
}

func TestCyclePerPage(t *testing.T) {
	p := New(10)

	p.CyclePerPage(1)
	assert.Equal(t, 20, p.PerPage())

	p.CyclePerPage(1)
	p.CyclePerPage(1)
	assert.Equal(t, 10, p.PerPage())

	p.CyclePerPage(-1)
	assert.Equal(t, 50, p.PerPage())
}

func TestTotalPages(t *testing.T) {
	p := New(10)

	for total, want := range map[int]int{0: 0, 1: 1, 10: 1, 11: 2, 95: 10} {
		assert.Equal(t, want, p.TotalPages(total), "total=%d", total)
	}
}

func TestBoundsAndWindow(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}
	p := New(3)

	start, end := p.Bounds(len(items))
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)

	p.Next(len(items))
	p.Next(len(items))
	assert.Equal(t, []int{6}, Window(p, items))

	assert.Empty(t, Window(p, []int{}))
}

func TestClampAfterShrink(t *testing.T) {
	p := New(2)
	p.Next(5)
	p.Next(5)
	assert.Equal(t, 3, p.Page())

	assert.True(t, p.Clamp(4))
	assert.Equal(t, 2, p.Page())

	assert.True(t, p.Clamp(0))
	assert.Equal(t, 1, p.Page())

	assert.False(t, p.Clamp(0))
}

func TestGoto(t *testing.T) {
	p := New(10)

	assert.True(t, p.Goto(4, 100))
	assert.Equal(t, 4, p.Page())

	assert.True(t, p.Goto(99, 100))
	assert.Equal(t, 10, p.Page())

	assert.True(t, p.Goto(-3, 100))
	assert.Equal(t, 1, p.Page())
}
