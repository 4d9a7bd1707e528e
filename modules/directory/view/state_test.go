package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/userdirectory/modules/directory/view"
)

func TestNewState_Defaults(t *testing.T) {
	s := view.NewState(0)

	assert.Equal(t, 1, s.Page())
	assert.Equal(t, view.DefaultPageSize, s.PageSize())
	assert.True(t, s.Criteria().IsZero())
	assert.Equal(t, view.SortNone, s.Sort())
}

func TestState_FilterChangeResetsPage(t *testing.T) {
	s := view.NewState(6)
	require.NoError(t, s.SetPage(3))

	var seen []view.Criteria
	s.OnFilterChange(func(c view.Criteria) {
		assert.Equal(t, 1, s.Page(), "page is reset before listeners run")
		seen = append(seen, c)
	})

	assert.True(t, s.SetSearch("борис"))
	assert.Equal(t, 1, s.Page())

	require.NoError(t, s.SetPage(2))
	assert.True(t, s.SetCompany("Tech Corp"))
	assert.True(t, s.SetLetter("Б"))

	assert.Equal(t, []view.Criteria{
		{Search: "борис"},
		{Search: "борис", Company: "Tech Corp"},
		{Search: "борис", Company: "Tech Corp", Letter: "Б"},
	}, seen)
}

func TestState_UnchangedCriteriaKeepPage(t *testing.T) {
	s := view.NewState(6)
	s.SetSearch("x")
	require.NoError(t, s.SetPage(2))

	calls := 0
	s.OnFilterChange(func(view.Criteria) { calls++ })

	assert.False(t, s.SetSearch("x"))
	assert.Equal(t, 2, s.Page())
	assert.Zero(t, calls)
}

func TestState_SortAndPageDoNotNotify(t *testing.T) {
	s := view.NewState(6)
	calls := 0
	s.OnFilterChange(func(view.Criteria) { calls++ })

	require.NoError(t, s.SetPage(4))
	s.SetSort(view.SortDescending)

	assert.Equal(t, 4, s.Page())
	assert.Zero(t, calls)
}

func TestState_PageSizeChangeResetsPage(t *testing.T) {
	s := view.NewState(6)
	require.NoError(t, s.SetPage(3))

	require.NoError(t, s.SetPageSize(10))
	assert.Equal(t, 1, s.Page())
	assert.Equal(t, 10, s.PageSize())

	assert.ErrorIs(t, s.SetPageSize(0), view.ErrInvalidPageSize)
	assert.ErrorIs(t, s.SetPage(0), view.ErrInvalidPage)
}

func TestState_RemoveListener(t *testing.T) {
	s := view.NewState(6)
	var first, second int
	remove := s.OnFilterChange(func(view.Criteria) { first++ })
	s.OnFilterChange(func(view.Criteria) { second++ })

	s.SetSearch("a")
	remove()
	s.SetSearch("b")

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestState_ClampPage(t *testing.T) {
	s := view.NewState(6)
	require.NoError(t, s.SetPage(5))

	assert.Equal(t, 2, s.ClampPage(2))
	assert.Equal(t, 1, s.ClampPage(0))
}

func TestState_QueryFeedsBuild(t *testing.T) {
	s := view.NewState(2)
	s.SetCompany("Tech Corp")
	s.SetSort(view.SortDescending)

	v, err := view.Build(fixtureUsers(), s.Query())
	require.NoError(t, err)

	assert.Equal(t, []string{"Васильев Василий", "Алексеев Алексей"}, names(v.Page.Items))
	assert.Equal(t, 1, v.Page.PageCount)
}
