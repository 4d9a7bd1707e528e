package domain

import (
	"context"
	"fmt"
	"math"

	"github.com/rai/userdirectory/modules/shared/types"
)

// ID strategies.
const (
	IDStrategySequence = "sequence"
	IDStrategyUUID     = "uuid"
)

// SequenceIDs hands out numeric IDs one above the largest numeric ID in
// the repository. Non-numeric IDs are ignored; the first ID is 1.
type SequenceIDs struct {
	repo UserRepository
}

func NewSequenceIDs(repo UserRepository) *SequenceIDs {
	return &SequenceIDs{repo: repo}
}

func (s *SequenceIDs) NextID(ctx context.Context) (types.UserID, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return types.UserID{}, fmt.Errorf("listing users: %w", err)
	}

	var max int64
	for _, u := range users {
		if n, ok := u.ID().Int64(); ok && n > max {
			max = n
		}
	}
	if max == math.MaxInt64 {
		return types.UserID{}, ErrIDExhausted
	}
	return types.NumericUserID(max + 1), nil
}

// UUIDs hands out random string IDs.
type UUIDs struct{}

func (UUIDs) NextID(context.Context) (types.UserID, error) {
	return types.NewUserID(), nil
}

// NewIDGenerator returns the generator for a strategy name.
func NewIDGenerator(strategy string, repo UserRepository) (IDGenerator, error) {
	switch strategy {
	case "", IDStrategySequence:
		return NewSequenceIDs(repo), nil
	case IDStrategyUUID:
		return UUIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}

var (
	_ IDGenerator = (*SequenceIDs)(nil)
	_ IDGenerator = UUIDs{}
)
