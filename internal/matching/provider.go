package matching

import (
	"context"
	"errors"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrCuratorNotFound = errors.New("curator not found")
)

// DataProvider supplies the records a ranking pass needs. Implementations own
// their storage; the scoring core never reaches past this interface.
type DataProvider interface {
	Project(ctx context.Context, id string) (ProjectRequest, error)
	Curator(ctx context.Context, id string) (CuratorProfile, error)
	// Candidates returns the pool to rank for a project, in a deterministic order.
	Candidates(ctx context.Context, project ProjectRequest) ([]Candidate, error)
	AudienceModel(ctx context.Context) (AudienceModel, error)
}
