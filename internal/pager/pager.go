// Package pager holds the page-index arithmetic shared by the front-ends.
// Pages are 1-based. Every mutating method reports whether the visible page
// changed, so callers re-render only when they need to.
package pager

const DefaultPerPage = 10

// PerPageChoices are the page sizes offered by the UIs.
var PerPageChoices = []int{10, 20, 50}

type Pager struct {
	page    int
	perPage int
}

func New(perPage int) *Pager {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	return &Pager{page: 1, perPage: perPage}
}

func (p *Pager) Page() int {
	return p.page
}

func (p *Pager) PerPage() int {
	return p.perPage
}

// TotalPages is ceil(total / perPage). An empty list has zero pages.
func (p *Pager) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}

	return (total + p.perPage - 1) / p.perPage
}

func (p *Pager) Previous() bool {
	if p.page <= 1 {
		return false
	}

	p.page--

	return true
}

func (p *Pager) Next(total int) bool {
	if p.page >= p.TotalPages(total) {
		return false
	}

	p.page++

	return true
}

// SetPerPage changes the page size and always goes back to page 1.
func (p *Pager) SetPerPage(perPage int) bool {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	p.perPage = perPage
	p.page = 1

	return true
}

// CyclePerPage moves to the next (step > 0) or previous (step < 0) entry of
// PerPageChoices, wrapping around.
func (p *Pager) CyclePerPage(step int) bool {
	idx := 0
	for i, choice := range PerPageChoices {
		if choice == p.perPage {
			idx = i
			break
		}
	}

	n := len(PerPageChoices)
	idx = ((idx+step)%n + n) % n

	return p.SetPerPage(PerPageChoices[idx])
}

// Goto jumps to page, clamped to [1, TotalPages(total)].
func (p *Pager) Goto(page, total int) bool {
	last := max(p.TotalPages(total), 1)
	page = min(max(page, 1), last)

	if page == p.page {
		return false
	}

	p.page = page

	return true
}

// Clamp pulls the current page back inside the list after it shrank.
func (p *Pager) Clamp(total int) bool {
	return p.Goto(p.page, total)
}

// Bounds returns the half-open index range of the current page. Past the end
// of the list both bounds equal total.
func (p *Pager) Bounds(total int) (int, int) {
	start := (p.page - 1) * p.perPage
	end := start + p.perPage

	start = min(max(start, 0), max(total, 0))
	end = min(end, max(total, 0))

	return start, end
}

// Window returns the items of the current page.
func Window[T any](p *Pager, items []T) []T {
	start, end := p.Bounds(len(items))

	return items[start:end]
}
