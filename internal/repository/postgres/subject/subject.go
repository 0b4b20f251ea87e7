package subject

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/entity"
	"rollbook/backend/internal/pkg/attendance"
	"rollbook/backend/internal/pkg/repository/postgresql"
	"rollbook/backend/internal/repository/postgres"

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Subject, error) {
	var detail entity.Subject

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Subject{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return detail, err
}

// SessionsForDay loads the day's scheduled sessions ordered by start. These
// feed the schedule index; the redis cache in front of this method keeps
// scan handling off the subjects table.
func (r Repository) SessionsForDay(ctx context.Context, day string) ([]attendance.Session, error) {
	query := fmt.Sprintf(`
		SELECT id, name, starts_at, ends_at
		FROM subjects
		WHERE deleted_at IS NULL AND starts_at::date = '%s'
		ORDER BY starts_at asc
	`, strings.Replace(day, "'", "''", -1))

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "selecting day sessions")
	}
	defer rows.Close()

	var sessions []attendance.Session

	for rows.Next() {
		var s attendance.Session
		var name *string
		var endsAt *time.Time
		if err := rows.Scan(&s.SubjectID, &name, &s.Start, &endsAt); err != nil {
			return nil, errors.Wrap(err, "scanning day sessions")
		}
		if name != nil {
			s.Name = *name
		}
		if endsAt != nil {
			s.End = *endsAt
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				s.deleted_at IS NULL
			`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND s.name ILIKE '%s'`, "%"+search+"%")
	}
	if filter.ClassGroupID != nil {
		whereQuery += fmt.Sprintf(` AND s.class_group_id = %d`, *filter.ClassGroupID)
	}
	if filter.Date != nil {
		parsed, err := time.Parse("2006-01-02", *filter.Date)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(` AND s.starts_at::date = '%s'`, parsed.Format("2006-01-02"))
	}

	orderQuery := "ORDER BY s.starts_at asc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}
	if filter.Limit != nil {
		limitQuery = fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}
	if filter.Offset != nil {
		offsetQuery = fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			s.id,
			s.name,
			s.class_group_id,
			g.name,
			s.starts_at,
			s.ends_at
		FROM subjects s
		LEFT JOIN class_group g ON s.class_group_id = g.id

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting subjects"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Name,
			&detail.ClassGroupID,
			&detail.ClassGroup,
			&detail.StartsAt,
			&detail.EndsAt); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning subject list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(s.id)
		FROM subjects s
		LEFT JOIN class_group g ON s.class_group_id = g.id
		%s
	`, whereQuery)

	count := 0
	if err := r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning subject count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			s.id,
			s.name,
			s.class_group_id,
			g.name,
			s.starts_at,
			s.ends_at
		FROM subjects s
		LEFT JOIN class_group g ON s.class_group_id = g.id
		WHERE s.deleted_at IS NULL AND s.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.Name,
		&detail.ClassGroupID,
		&detail.ClassGroup,
		&detail.StartsAt,
		&detail.EndsAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting subject"), http.StatusInternalServerError)
	}

	return detail, nil
}
