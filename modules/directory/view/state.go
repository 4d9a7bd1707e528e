package view

import "slices"

// FilterListener is called after the filter criteria changed.
type FilterListener func(c Criteria)

// State is the caller-owned list state: criteria, sort mode and the
// current page. Changing the criteria resets the page to 1 and then
// notifies the listeners, in registration order.
//
// State is not safe for concurrent use; it belongs to a single UI loop.
type State struct {
	criteria  Criteria
	sort      SortMode
	page      int
	pageSize  int
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn FilterListener
}

// NewState returns a state on page 1. A non-positive pageSize means DefaultPageSize.
func NewState(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &State{
		page:     1,
		pageSize: pageSize,
	}
}

func (s *State) Criteria() Criteria { return s.criteria }
func (s *State) Sort() SortMode     { return s.sort }
func (s *State) Page() int          { return s.page }
func (s *State) PageSize() int      { return s.pageSize }

// Query returns the state as input for Build.
func (s *State) Query() Query {
	return Query{
		Criteria: s.criteria,
		Sort:     s.sort,
		Page:     s.page,
		PageSize: s.pageSize,
	}
}

// OnFilterChange registers fn and returns a function that removes it.
func (s *State) OnFilterChange(fn FilterListener) (remove func()) {
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
	}
}

// SetCriteria replaces all criteria. It reports whether anything changed.
func (s *State) SetCriteria(c Criteria) bool {
	if c == s.criteria {
		return false
	}
	s.criteria = c
	s.page = 1
	s.notify()
	return true
}

func (s *State) SetSearch(term string) bool {
	c := s.criteria
	c.Search = term
	return s.SetCriteria(c)
}

func (s *State) SetCompany(name string) bool {
	c := s.criteria
	c.Company = name
	return s.SetCriteria(c)
}

func (s *State) SetLetter(letter string) bool {
	c := s.criteria
	c.Letter = letter
	return s.SetCriteria(c)
}

// ClearFilters drops every criterion.
func (s *State) ClearFilters() bool {
	return s.SetCriteria(Criteria{})
}

// SetSort changes the sort mode; the current page is kept.
func (s *State) SetSort(mode SortMode) {
	s.sort = mode
}

// SetPage moves to page n.
func (s *State) SetPage(n int) error {
	if n < 1 {
		return ErrInvalidPage
	}
	s.page = n
	return nil
}

// SetPageSize changes the page size and goes back to page 1.
func (s *State) SetPageSize(n int) error {
	if n < 1 {
		return ErrInvalidPageSize
	}
	if n != s.pageSize {
		s.pageSize = n
		s.page = 1
	}
	return nil
}

// ClampPage moves the page back inside [1, pageCount] after the
// collection shrank. It returns the resulting page.
func (s *State) ClampPage(pageCount int) int {
	if pageCount < 1 {
		s.page = 1
	} else if s.page > pageCount {
		s.page = pageCount
	}
	return s.page
}

func (s *State) notify() {
	for _, l := range slices.Clone(s.listeners) {
		l.fn(s.criteria)
	}
}
