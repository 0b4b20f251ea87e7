package leave

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/auth"
	"rollbook/backend/internal/entity"
	"rollbook/backend/internal/pkg/repository/postgresql"
	"rollbook/backend/internal/repository/postgres"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
)

const dayLayout = "2006-01-02"

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "StudentID", "DateFrom", "DateTo"); err != nil {
		return CreateResponse{}, err
	}

	from, err := time.Parse(dayLayout, *request.DateFrom)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "parsing date_from"), http.StatusBadRequest)
	}
	to, err := time.Parse(dayLayout, *request.DateTo)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "parsing date_to"), http.StatusBadRequest)
	}
	if to.Before(from) {
		return CreateResponse{}, web.NewRequestError(errors.New("date_to is before date_from"), http.StatusBadRequest)
	}

	exists, err := r.NewSelect().Model((*entity.Student)(nil)).
		Where("id = ? AND deleted_at IS NULL", *request.StudentID).
		Exists(ctx)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "checking student"), http.StatusInternalServerError)
	}
	if !exists {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "student"), http.StatusNotFound)
	}

	response := CreateResponse{
		StudentID: request.StudentID,
		DateFrom:  from.Format(dayLayout),
		DateTo:    to.Format(dayLayout),
		Reason:    request.Reason,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		CreatedBy: claims.UserId,
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating leave request"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				l.deleted_at IS NULL
			`

	if filter.StudentID != nil {
		whereQuery += fmt.Sprintf(` AND l.student_id = %d`, *filter.StudentID)
	}
	if filter.Status != nil {
		switch *filter.Status {
		case StatusPending, StatusApproved, StatusRejected:
			whereQuery += fmt.Sprintf(` AND l.status = '%s'`, *filter.Status)
		default:
			return nil, 0, web.NewRequestError(fmt.Errorf("unknown leave status %q", *filter.Status), http.StatusBadRequest)
		}
	}

	orderQuery := "ORDER BY l.created_at desc"

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
			l.id,
			l.student_id,
			s.student_code,
			s.first_name || ' ' || s.last_name,
			l.date_from,
			l.date_to,
			l.reason,
			l.status,
			l.decided_by,
			l.decided_at
		FROM leave_request l
		LEFT JOIN students s ON l.student_id = s.id

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting leave requests"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		var fromString, toString string

		if err = rows.Scan(
			&detail.ID,
			&detail.StudentID,
			&detail.StudentCode,
			&detail.StudentName,
			&fromString,
			&toString,
			&detail.Reason,
			&detail.Status,
			&detail.DecidedBy,
			&detail.DecidedAt); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning leave list"), http.StatusBadRequest)
		}

		from, err := date.ParseDate(fromString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting date_from to date.Date"), http.StatusBadRequest)
		}
		detail.DateFrom = &from

		to, err := date.ParseDate(toString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting date_to to date.Date"), http.StatusBadRequest)
		}
		detail.DateTo = &to

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(l.id)
		FROM leave_request l
		LEFT JOIN students s ON l.student_id = s.id
		%s
	`, whereQuery)

	count := 0
	if err := r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning leave count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetById(ctx context.Context, id int) (entity.LeaveRequest, error) {
	var detail entity.LeaveRequest

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.LeaveRequest{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return detail, err
}

// Decide approves or rejects a pending request. Approved requests are
// immutable afterwards; only pending requests can be decided.
func (r Repository) Decide(ctx context.Context, request DecideRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleTeacher)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID", "Approve"); err != nil {
		return err
	}

	detail, err := r.GetById(ctx, request.ID)
	if err != nil {
		return err
	}
	if detail.Status == nil || *detail.Status != StatusPending {
		return web.NewRequestError(errors.New("leave request is already decided"), http.StatusConflict)
	}

	status := StatusRejected
	if *request.Approve {
		status = StatusApproved
	}

	q := r.NewUpdate().Table("leave_request").Where("deleted_at IS NULL AND id = ? AND status = ?", request.ID, StatusPending)
	q.Set("status = ?", status)
	q.Set("decided_at = ?", time.Now())
	q.Set("decided_by = ?", claims.UserId)
	if request.Reason != nil {
		q.Set("reason = ?", request.Reason)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	res, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "deciding leave request"), http.StatusBadRequest)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking decide result"), http.StatusInternalServerError)
	}
	if affected == 0 {
		return web.NewRequestError(errors.New("leave request is already decided"), http.StatusConflict)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "leave_request", id)
}
