package view

import (
	"github.com/rai/userdirectory/modules/shared/types"
)

// ListView is everything the user list renders for one query.
type ListView struct {
	Page Page[types.UserRecord] `json:"page"`
	// SnapshotCount is the size of the unfiltered collection.
	SnapshotCount int `json:"snapshot_count"`
	// Companies and Letters are derived from the unfiltered collection.
	Companies []CompanyFacet `json:"companies"`
	Letters   []string       `json:"letters"`
}

// FilteredCount is the number of records left after filtering, across all pages.
func (v ListView) FilteredCount() int { return v.Page.TotalCount }

// Build runs the whole pipeline over records: filter, sort, paginate,
// and derives the facets from the unfiltered input.
func Build(records []types.UserRecord, q Query) (ListView, error) {
	filtered := Filter(records, q.Criteria)
	sorted := Sort(filtered, q.Sort)

	page, err := Paginate(sorted, q.Page, q.PageSize)
	if err != nil {
		return ListView{}, err
	}

	return ListView{
		Page:          page,
		SnapshotCount: len(records),
		Companies:     DistinctCompanies(records),
		Letters:       AvailableFirstLetters(records),
	}, nil
}
