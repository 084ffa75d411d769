// internal/sources/postgres.go
package sources

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	apperrors "artmatch/internal/common/errors"
	"artmatch/internal/common/logger"
	"artmatch/internal/matching"
)

const (
	projectQuery = `
		SELECT id, categories, budget_min, budget_max, preparation_start, event_end, required_experience
		FROM projects WHERE id = $1`

	curatorQuery = `
		SELECT id, preferred_styles
		FROM curators WHERE id = $1`

	artistColumns = `
		SELECT id, genres, primary_genre, work_styles, experience_years, rating, is_local,
		       budget_min, budget_max, available_from, available_to
		FROM artists`

	candidatesByGenreQuery = artistColumns + `
		WHERE genres ?| $1
		ORDER BY id`

	allCandidatesQuery = artistColumns + `
		ORDER BY id`

	genrePopularityQuery = `SELECT genre, popularity FROM genre_popularity`
)

// PostgresProvider reads ranking inputs from the projects, curators, artists
// and genre_popularity tables. Tag columns are jsonb arrays of normalized tags.
type PostgresProvider struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresProvider(db *sql.DB, log logger.Logger) *PostgresProvider {
	return &PostgresProvider{db: db, logger: log}
}

func decodeTags(raw []byte) (matching.TagSet, error) {
	if len(raw) == 0 {
		return matching.NewTagSet(), nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, err
	}
	return matching.NewTagSet(tags...), nil
}

func (p *PostgresProvider) Project(ctx context.Context, id string) (matching.ProjectRequest, error) {
	var (
		project    matching.ProjectRequest
		categories []byte
		band       string
	)
	err := p.db.QueryRowContext(ctx, projectQuery, id).Scan(
		&project.ID, &categories,
		&project.Budget.Min, &project.Budget.Max,
		&project.Timeline.PreparationStart, &project.Timeline.EventEnd,
		&band,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return matching.ProjectRequest{}, matching.ErrProjectNotFound
	}
	if err != nil {
		return matching.ProjectRequest{}, apperrors.NewQueryExecutionFailedError("project", err)
	}

	if project.Categories, err = decodeTags(categories); err != nil {
		return matching.ProjectRequest{}, apperrors.NewQueryExecutionFailedError("project", fmt.Errorf("categories: %w", err))
	}
	project.RequiredExperience = matching.ExperienceBand(band)
	return project, nil
}

func (p *PostgresProvider) Curator(ctx context.Context, id string) (matching.CuratorProfile, error) {
	var (
		curator matching.CuratorProfile
		styles  []byte
	)
	err := p.db.QueryRowContext(ctx, curatorQuery, id).Scan(&curator.ID, &styles)
	if errors.Is(err, sql.ErrNoRows) {
		return matching.CuratorProfile{}, matching.ErrCuratorNotFound
	}
	if err != nil {
		return matching.CuratorProfile{}, apperrors.NewQueryExecutionFailedError("curator", err)
	}

	if curator.PreferredStyles, err = decodeTags(styles); err != nil {
		return matching.CuratorProfile{}, apperrors.NewQueryExecutionFailedError("curator", fmt.Errorf("preferred_styles: %w", err))
	}
	return curator, nil
}

// Candidates returns artists sharing a genre with the project, or every artist
// when the project names no categories, ordered by id.
func (p *PostgresProvider) Candidates(ctx context.Context, project matching.ProjectRequest) ([]matching.Candidate, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if project.Categories.Len() == 0 {
		rows, err = p.db.QueryContext(ctx, allCandidatesQuery)
	} else {
		rows, err = p.db.QueryContext(ctx, candidatesByGenreQuery, pq.Array(project.Categories.Slice()))
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("candidates", err)
	}
	defer rows.Close()

	var candidates []matching.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("candidates", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("candidates", err)
	}

	p.logger.Debug("candidates loaded from postgres", map[string]interface{}{
		"projectId": project.ID,
		"count":     len(candidates),
	})
	return candidates, nil
}

func scanCandidate(rows *sql.Rows) (matching.Candidate, error) {
	var (
		c              matching.Candidate
		genres, styles []byte
		primary        sql.NullString
	)
	if err := rows.Scan(
		&c.ID, &genres, &primary, &styles,
		&c.ExperienceYears, &c.Rating, &c.IsLocal,
		&c.Budget.Min, &c.Budget.Max,
		&c.Availability.Start, &c.Availability.End,
	); err != nil {
		return matching.Candidate{}, err
	}

	var err error
	if c.Genres, err = decodeTags(genres); err != nil {
		return matching.Candidate{}, fmt.Errorf("artist %s genres: %w", c.ID, err)
	}
	if c.WorkStyles, err = decodeTags(styles); err != nil {
		return matching.Candidate{}, fmt.Errorf("artist %s work_styles: %w", c.ID, err)
	}

	c.PrimaryGenre = matching.NormalizeTag(primary.String)
	if c.PrimaryGenre == "" {
		// TagSet drops order, so read the first listed genre from the raw array.
		var listed []string
		_ = json.Unmarshal(genres, &listed)
		if len(listed) > 0 {
			c.PrimaryGenre = matching.NormalizeTag(listed[0])
		}
	}
	return c, nil
}

func (p *PostgresProvider) AudienceModel(ctx context.Context) (matching.AudienceModel, error) {
	rows, err := p.db.QueryContext(ctx, genrePopularityQuery)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("genre_popularity", err)
	}
	defer rows.Close()

	popularity := make(map[string]float64)
	for rows.Next() {
		var (
			genre string
			value float64
		)
		if err := rows.Scan(&genre, &value); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("genre_popularity", err)
		}
		popularity[genre] = value
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("genre_popularity", err)
	}
	return matching.NewAudienceModel(popularity), nil
}
