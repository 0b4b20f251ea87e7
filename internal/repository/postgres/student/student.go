package student

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/entity"
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

func (r Repository) GetById(ctx context.Context, id int) (entity.Student, error) {
	var detail entity.Student

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Student{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return detail, err
}

// GetByCode resolves a scanned badge code to the student.
func (r Repository) GetByCode(ctx context.Context, code string) (entity.Student, error) {
	var detail entity.Student

	err := r.NewSelect().Model(&detail).Where("student_code = ? AND deleted_at IS NULL", code).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Student{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "student"), http.StatusNotFound)
	}

	return detail, err
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
		whereQuery += fmt.Sprintf(` AND
		(s.student_code ilike '%s' OR s.first_name ilike '%s' OR s.last_name ilike '%s')`,
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if filter.ClassGroupID != nil {
		whereQuery += fmt.Sprintf(` AND s.class_group_id = %d`, *filter.ClassGroupID)
	}

	orderQuery := "ORDER BY s.student_code asc"

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
			s.student_code,
			s.first_name,
			s.last_name,
			s.class_group_id,
			g.name,
			s.phone
		FROM students s
		LEFT JOIN class_group g ON s.class_group_id = g.id

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting students"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.StudentCode,
			&detail.FirstName,
			&detail.LastName,
			&detail.ClassGroupID,
			&detail.ClassGroup,
			&detail.Phone); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning student list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(s.id)
		FROM students s
		LEFT JOIN class_group g ON s.class_group_id = g.id
		%s
	`, whereQuery)

	count := 0
	if err := r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning student count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

// BadgeList loads what the badge sheet needs for every active student,
// optionally limited to one class group.
func (r Repository) BadgeList(ctx context.Context, classGroupID *int) ([]BadgeEntry, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	whereQuery := "WHERE s.deleted_at IS NULL"
	if classGroupID != nil {
		whereQuery += fmt.Sprintf(" AND s.class_group_id = %d", *classGroupID)
	}

	query := fmt.Sprintf(`
		SELECT
			s.id,
			s.student_code,
			s.first_name || ' ' || s.last_name,
			COALESCE(g.name, '')
		FROM students s
		LEFT JOIN class_group g ON s.class_group_id = g.id
		%s
		ORDER BY s.student_code asc
	`, whereQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting badge list"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []BadgeEntry

	for rows.Next() {
		var entry BadgeEntry
		if err := rows.Scan(&entry.ID, &entry.StudentCode, &entry.FullName, &entry.ClassGroup); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning badge list"), http.StatusBadRequest)
		}
		list = append(list, entry)
	}

	return list, nil
}
