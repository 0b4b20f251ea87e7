package record

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
	"rollbook/backend/internal/pkg/keylock"
	"rollbook/backend/internal/pkg/repository/postgresql"
	"rollbook/backend/internal/repository/postgres"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"
)

// lockWait bounds how long a mark event waits on the per-key lock before
// the caller is told to retry.
const lockWait = 3 * time.Second

const dayLayout = "2006-01-02"

// ScheduleSource yields the subject sessions scheduled on one work day.
type ScheduleSource interface {
	SessionsForDay(ctx context.Context, day string) ([]attendance.Session, error)
}

type Repository struct {
	*postgresql.Database

	schedule ScheduleSource
	locks    *keylock.KeyLock
	resolver attendance.Resolver
	loc      *time.Location
}

func NewRepository(database *postgresql.Database, schedule ScheduleSource, grace time.Duration, loc *time.Location) *Repository {
	return &Repository{
		Database: database,
		schedule: schedule,
		locks:    keylock.New(),
		resolver: attendance.Resolver{Grace: grace},
		loc:      loc,
	}
}

// MarkEvent is the single entry point for check-in/check-out/manual-status
// events. The open/close decision for one (student, day, subject) key runs
// under a per-key lock so concurrent scans cannot both open a record; the
// unique index on the table is the durable backstop.
func (r *Repository) MarkEvent(ctx context.Context, request MarkEventRequest) (MarkEventResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return MarkEventResponse{}, err
	}

	if err := r.ValidateStruct(&request, "StudentID"); err != nil {
		return MarkEventResponse{}, err
	}

	if request.ExplicitStatus != nil && !attendance.Status(*request.ExplicitStatus).Valid() {
		return MarkEventResponse{}, web.NewRequestError(fmt.Errorf("unknown status %q", *request.ExplicitStatus), http.StatusBadRequest)
	}

	instant := time.Now().In(r.loc)
	if request.Instant != nil {
		instant = request.Instant.In(r.loc)
	}
	day := instant.Format(dayLayout)

	if err := r.studentExists(ctx, *request.StudentID); err != nil {
		return MarkEventResponse{}, err
	}

	session, err := r.resolveSession(ctx, request.SubjectID, day, instant)
	if err != nil {
		return MarkEventResponse{}, err
	}

	key := attendance.Key{StudentID: *request.StudentID, WorkDay: day}
	if session != nil {
		key.SubjectID = &session.SubjectID
	}

	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	release, err := r.locks.Acquire(lockCtx, key.String())
	if err != nil {
		return MarkEventResponse{}, web.NewRequestError(errors.Wrap(err, "attendance busy, retry"), http.StatusConflict)
	}
	defer release()

	keyedState, keyedID, err := r.keyedState(ctx, key)
	if err != nil {
		return MarkEventResponse{}, err
	}

	dayOpenID := 0
	if session == nil {
		dayOpenID, err = r.latestOpenRecord(ctx, *request.StudentID, day)
		if err != nil {
			return MarkEventResponse{}, err
		}
	}

	action, err := attendance.Decide(session != nil, keyedState, dayOpenID != 0)
	if errors.Is(err, attendance.ErrAlreadyClosed) {
		return MarkEventResponse{}, web.NewRequestError(postgres.ErrAlreadyClosed, http.StatusConflict)
	}
	if err != nil {
		return MarkEventResponse{}, web.NewRequestError(err, http.StatusBadRequest)
	}

	switch action {
	case attendance.ActionOpen:
		return r.openRecord(ctx, claims.UserId, request, session, day, instant)
	case attendance.ActionCloseKeyed:
		return r.closeRecord(ctx, claims.UserId, keyedID, instant)
	default:
		return r.closeRecord(ctx, claims.UserId, dayOpenID, instant)
	}
}

func (r *Repository) openRecord(ctx context.Context, actorID int, request MarkEventRequest, session *attendance.Session, day string, instant time.Time) (MarkEventResponse, error) {
	var scheduledStart *time.Time
	if session != nil {
		scheduledStart = &session.Start
	}

	resolved := r.resolver.ResolveCheckIn(scheduledStart, instant)
	status := resolved.Status
	if request.ExplicitStatus != nil {
		status = attendance.Status(*request.ExplicitStatus)
	}

	dayTime, err := time.ParseInLocation(dayLayout, day, r.loc)
	if err != nil {
		return MarkEventResponse{}, web.NewRequestError(errors.Wrap(err, "parsing work day"), http.StatusBadRequest)
	}

	approved, err := r.approvedLeaveRanges(ctx, []int{*request.StudentID}, day, day)
	if err != nil {
		return MarkEventResponse{}, err
	}
	status = attendance.ApplyLeave(status, dayTime, approved[*request.StudentID])

	response := MarkEventResponse{
		StudentID:       request.StudentID,
		WorkDay:         day,
		ComeTime:        &instant,
		Status:          string(status),
		LatenessMinutes: resolved.LatenessMinutes,
		Note:            request.Note,
		Action:          "check_in",
		CreatedAt:       time.Now(),
		CreatedBy:       actorID,
	}
	if session != nil {
		response.SubjectID = &session.SubjectID
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if isUniqueViolation(err) {
		// Lost the race against another writer on the unique index. The
		// caller retries the whole mark.
		return MarkEventResponse{}, web.NewRequestError(errors.New("concurrent mark detected, retry"), http.StatusConflict)
	}
	if err != nil {
		return MarkEventResponse{}, web.NewRequestError(errors.Wrap(err, "creating attendance record"), http.StatusBadRequest)
	}

	return response, nil
}

func (r *Repository) closeRecord(ctx context.Context, actorID, id int, instant time.Time) (MarkEventResponse, error) {
	var detail entity.AttendanceRecord
	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return MarkEventResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return MarkEventResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance record"), http.StatusInternalServerError)
	}

	if detail.ComeTime == nil {
		return MarkEventResponse{}, web.NewRequestError(errors.New("record has no check-in"), http.StatusBadRequest)
	}

	warning := ""
	workMinutes, warnErr := r.resolver.ResolveDuration(*detail.ComeTime, instant)
	if warnErr != nil {
		warning = warnErr.Error()
	}

	q := r.NewUpdate().Table("attendance_record").Where("deleted_at IS NULL AND id = ?", id)
	q.Set("leave_time = ?", instant)
	q.Set("work_minutes = ?", workMinutes)
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", actorID)

	if _, err := q.Exec(ctx); err != nil {
		return MarkEventResponse{}, web.NewRequestError(errors.Wrap(err, "closing attendance record"), http.StatusBadRequest)
	}

	response := MarkEventResponse{
		ID:          detail.ID,
		StudentID:   detail.StudentID,
		SubjectID:   detail.SubjectID,
		ComeTime:    detail.ComeTime,
		LeaveTime:   &instant,
		WorkMinutes: workMinutes,
		Action:      "check_out",
		Warning:     warning,
	}
	if detail.WorkDay != nil {
		response.WorkDay = *detail.WorkDay
	}
	if detail.Status != nil {
		response.Status = *detail.Status
	}
	if detail.LatenessMinutes != nil {
		response.LatenessMinutes = *detail.LatenessMinutes
	}

	return response, nil
}

// MarkBulkAbsent creates an explicit absent daily record per student. Every
// item is processed independently; failures are collected, not propagated.
// A student already marked absent for the day counts as success.
func (r *Repository) MarkBulkAbsent(ctx context.Context, request BulkAbsentRequest) ([]BulkAbsentResult, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	if len(request.StudentIDs) == 0 {
		return nil, web.NewRequestError(errors.New("student_ids is required"), http.StatusBadRequest)
	}

	day := time.Now().In(r.loc).Format(dayLayout)
	if request.Date != nil {
		parsed, err := time.Parse(dayLayout, *request.Date)
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "parsing date"), http.StatusBadRequest)
		}
		day = parsed.Format(dayLayout)
	}

	results := make([]BulkAbsentResult, 0, len(request.StudentIDs))
	for _, studentID := range request.StudentIDs {
		results = append(results, r.markOneAbsent(ctx, claims.UserId, studentID, day, request.Note))
	}

	return results, nil
}

func (r *Repository) markOneAbsent(ctx context.Context, actorID, studentID int, day string, note *string) BulkAbsentResult {
	result := BulkAbsentResult{StudentID: studentID}

	if err := r.studentExists(ctx, studentID); err != nil {
		result.Error = err.Error()
		return result
	}

	key := attendance.Key{StudentID: studentID, WorkDay: day}

	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	release, err := r.locks.Acquire(lockCtx, key.String())
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer release()

	var existing entity.AttendanceRecord
	err = r.NewSelect().Model(&existing).
		Where("student_id = ? AND work_day = ? AND subject_id IS NULL AND deleted_at IS NULL", studentID, day).
		Scan(ctx)
	if err == nil {
		if existing.Status != nil && *existing.Status == string(attendance.StatusAbsent) {
			result.RecordID = existing.ID
			result.Ok = true
			return result
		}
		result.Error = postgres.ErrAlreadyMarked.Error()
		return result
	}
	if !errors.Is(err, sql.ErrNoRows) {
		result.Error = err.Error()
		return result
	}

	response := MarkEventResponse{
		StudentID: &studentID,
		WorkDay:   day,
		Status:    string(attendance.StatusAbsent),
		Note:      note,
		CreatedAt: time.Now(),
		CreatedBy: actorID,
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if isUniqueViolation(err) {
		result.Error = postgres.ErrAlreadyMarked.Error()
		return result
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.RecordID = response.ID
	result.Ok = true
	return result
}

func (r *Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				a.deleted_at IS NULL
			`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND
		(s.student_code ilike '%s' OR s.first_name || ' ' || s.last_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.ClassGroupID != nil {
		whereQuery += fmt.Sprintf(` AND s.class_group_id = %d`, *filter.ClassGroupID)
	}
	if filter.SubjectID != nil {
		whereQuery += fmt.Sprintf(` AND a.subject_id = %d`, *filter.SubjectID)
	}
	if filter.Status != nil {
		status := strings.Replace(*filter.Status, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND a.status = '%s'`, status)
	}

	if filter.Date != nil {
		parsed, err := time.Parse(dayLayout, *filter.Date)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", parsed.Format(dayLayout))
	} else {
		today := time.Now().In(r.loc).Format(dayLayout)
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", today)
	}

	orderQuery := "ORDER BY a.created_at desc"

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
			a.id,
			a.student_id,
			s.student_code,
			s.first_name || ' ' || s.last_name,
			a.subject_id,
			sub.name,
			a.work_day,
			a.status,
			a.lateness_minutes,
			a.work_minutes,
			a.come_time,
			a.leave_time,
			a.note
		FROM attendance_record as a
		LEFT JOIN students s ON a.student_id = s.id
		LEFT JOIN subjects sub ON a.subject_id = sub.id

		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance records"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		var workDayString string

		if err = rows.Scan(
			&detail.ID,
			&detail.StudentID,
			&detail.StudentCode,
			&detail.StudentName,
			&detail.SubjectID,
			&detail.SubjectName,
			&workDayString,
			&detail.Status,
			&detail.LatenessMinutes,
			&detail.WorkMinutes,
			&detail.ComeTime,
			&detail.LeaveTime,
			&detail.Note); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance list"), http.StatusBadRequest)
		}

		workDay, err := date.ParseDate(workDayString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusBadRequest)
		}
		detail.WorkDay = &workDay

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(a.id)
		FROM attendance_record as a
		LEFT JOIN students s ON a.student_id = s.id
		LEFT JOIN subjects sub ON a.subject_id = sub.id
		%s
	`, whereQuery)

	count := 0
	if err := r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r *Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.student_id,
			s.student_code,
			s.first_name || ' ' || s.last_name,
			a.subject_id,
			sub.name,
			a.work_day,
			a.status,
			a.lateness_minutes,
			a.work_minutes,
			a.come_time,
			a.leave_time,
			a.note,
			a.created_by
		FROM attendance_record as a
		LEFT JOIN students s ON a.student_id = s.id
		LEFT JOIN subjects sub ON a.subject_id = sub.id
		WHERE a.deleted_at IS NULL AND a.id = %d
	`, id)

	var detail GetDetailByIdResponse
	var workDayString string

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.StudentID,
		&detail.StudentCode,
		&detail.StudentName,
		&detail.SubjectID,
		&detail.SubjectName,
		&workDayString,
		&detail.Status,
		&detail.LatenessMinutes,
		&detail.WorkMinutes,
		&detail.ComeTime,
		&detail.LeaveTime,
		&detail.Note,
		&detail.MarkedBy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance record"), http.StatusInternalServerError)
	}

	workDay, err := date.ParseDate(workDayString)
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusBadRequest)
	}
	detail.WorkDay = &workDay

	return detail, nil
}

// UpdateColumns is the manual edit path. Edited times recompute lateness
// and work duration; an explicit status survives unless approved leave
// overrides it.
func (r *Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	var detail entity.AttendanceRecord
	err = r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", request.ID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "selecting attendance record"), http.StatusInternalServerError)
	}

	if request.Status != nil && !attendance.Status(*request.Status).Valid() {
		return web.NewRequestError(fmt.Errorf("unknown status %q", *request.Status), http.StatusBadRequest)
	}

	comeTime := detail.ComeTime
	leaveTime := detail.LeaveTime

	if request.ComeTime != "" {
		t, err := r.parseClock(detail, request.ComeTime)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing come time"), http.StatusBadRequest)
		}
		comeTime = &t
	}
	if request.LeaveTime != "" {
		t, err := r.parseClock(detail, request.LeaveTime)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing leave time"), http.StatusBadRequest)
		}
		leaveTime = &t
	}

	q := r.NewUpdate().Table("attendance_record").Where("deleted_at IS NULL AND id = ?", request.ID)

	status := detail.Status
	if request.Status != nil {
		status = request.Status
	}

	if comeTime != nil && detail.SubjectID != nil && request.ComeTime != "" {
		start, err := r.subjectStart(ctx, *detail.SubjectID)
		if err != nil {
			return err
		}
		resolved := r.resolver.ResolveCheckIn(start, *comeTime)
		q.Set("lateness_minutes = ?", resolved.LatenessMinutes)
		if request.Status == nil {
			s := string(resolved.Status)
			status = &s
		}
	}

	if comeTime != nil && leaveTime != nil {
		workMinutes, _ := r.resolver.ResolveDuration(*comeTime, *leaveTime)
		q.Set("work_minutes = ?", workMinutes)
	}

	// Leave keeps the highest precedence even on manual edits.
	if status != nil && detail.StudentID != nil && detail.WorkDay != nil {
		dayTime, err := time.ParseInLocation(dayLayout, *detail.WorkDay, r.loc)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing work day"), http.StatusBadRequest)
		}
		approved, err := r.approvedLeaveRanges(ctx, []int{*detail.StudentID}, *detail.WorkDay, *detail.WorkDay)
		if err != nil {
			return err
		}
		overridden := string(attendance.ApplyLeave(attendance.Status(*status), dayTime, approved[*detail.StudentID]))
		status = &overridden
	}

	if request.ComeTime != "" {
		q.Set("come_time = ?", comeTime)
	}
	if request.LeaveTime != "" {
		q.Set("leave_time = ?", leaveTime)
	}
	if status != nil {
		q.Set("status = ?", status)
	}
	if request.Note != nil {
		q.Set("note = ?", request.Note)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	if _, err := q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating attendance record"), http.StatusBadRequest)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "attendance_record", id)
}

// DailyStatus folds one student-day into a single status. Days with neither
// records nor approved leave are reported as not found.
func (r *Repository) DailyStatus(ctx context.Context, studentID int, day string) (DailyStatusResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return DailyStatusResponse{}, err
	}

	if err := r.studentExists(ctx, studentID); err != nil {
		return DailyStatusResponse{}, err
	}

	dayTime, err := time.ParseInLocation(dayLayout, day, r.loc)
	if err != nil {
		return DailyStatusResponse{}, web.NewRequestError(errors.Wrap(err, "parsing day"), http.StatusBadRequest)
	}

	query := fmt.Sprintf(`
		SELECT status, lateness_minutes
		FROM attendance_record
		WHERE deleted_at IS NULL AND student_id = %d AND work_day = '%s'
	`, studentID, dayTime.Format(dayLayout))

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return DailyStatusResponse{}, web.NewRequestError(errors.Wrap(err, "selecting day records"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var records []attendance.DayRecord
	for rows.Next() {
		var status string
		var lateness *int
		if err := rows.Scan(&status, &lateness); err != nil {
			return DailyStatusResponse{}, web.NewRequestError(errors.Wrap(err, "scanning day records"), http.StatusBadRequest)
		}
		rec := attendance.DayRecord{Status: attendance.Status(status)}
		if lateness != nil {
			rec.LatenessMinutes = *lateness
		}
		records = append(records, rec)
	}

	approved, err := r.approvedLeaveRanges(ctx, []int{studentID}, day, day)
	if err != nil {
		return DailyStatusResponse{}, err
	}

	daily, ok := attendance.AggregateDay(studentID, dayTime, records, approved[studentID])
	if !ok {
		return DailyStatusResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	parsed, err := date.ParseDate(day)
	if err != nil {
		return DailyStatusResponse{}, web.NewRequestError(errors.Wrap(err, "converting day to date.Date"), http.StatusBadRequest)
	}

	return DailyStatusResponse{
		StudentID:       studentID,
		Day:             &parsed,
		Status:          string(daily.Status),
		LatenessMinutes: daily.LatenessMinutes,
		RecordCount:     len(records),
	}, nil
}

// WeeklySummary folds one student's seven days starting at weekStart into
// per-day statuses plus category counts. Days with neither records nor
// approved leave are reported with a null status.
func (r *Repository) WeeklySummary(ctx context.Context, studentID int, weekStart date.Date) (WeeklySummaryResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return WeeklySummaryResponse{}, err
	}

	if err := r.studentExists(ctx, studentID); err != nil {
		return WeeklySummaryResponse{}, err
	}

	fromStr := weekStart.Format(dayLayout)
	toStr := weekStart.AddDate(0, 0, 6).Format(dayLayout)

	query := fmt.Sprintf(`
		SELECT work_day, status, lateness_minutes
		FROM attendance_record
		WHERE deleted_at IS NULL AND student_id = %d AND work_day BETWEEN '%s' AND '%s'
	`, studentID, fromStr, toStr)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return WeeklySummaryResponse{}, web.NewRequestError(errors.Wrap(err, "selecting week records"), http.StatusInternalServerError)
	}
	defer rows.Close()

	byDay := map[string][]attendance.DayRecord{}
	for rows.Next() {
		var day, status string
		var lateness *int
		if err := rows.Scan(&day, &status, &lateness); err != nil {
			return WeeklySummaryResponse{}, web.NewRequestError(errors.Wrap(err, "scanning week records"), http.StatusBadRequest)
		}
		rec := attendance.DayRecord{Status: attendance.Status(status)}
		if lateness != nil {
			rec.LatenessMinutes = *lateness
		}
		byDay[day] = append(byDay[day], rec)
	}

	approved, err := r.approvedLeaveRanges(ctx, []int{studentID}, fromStr, toStr)
	if err != nil {
		return WeeklySummaryResponse{}, err
	}

	start := weekStart
	response := WeeklySummaryResponse{
		StudentID: studentID,
		WeekStart: &start,
		Days:      make([]WeeklyDay, 0, 7),
	}

	for i := 0; i < 7; i++ {
		dayTime := weekStart.AddDate(0, 0, i)
		dayStr := dayTime.Format(dayLayout)
		entry := WeeklyDay{Day: &date.Date{Time: dayTime}}

		daily, ok := attendance.AggregateDay(studentID, dayTime, byDay[dayStr], approved[studentID])
		if ok {
			status := string(daily.Status)
			entry.Status = &status
			entry.LatenessMinutes = daily.LatenessMinutes

			switch daily.Status {
			case attendance.StatusPresent:
				response.PresentDays++
			case attendance.StatusLate:
				response.LateDays++
				response.TotalLateMinutes += daily.LatenessMinutes
			case attendance.StatusAbsent:
				response.AbsentDays++
			case attendance.StatusOnLeave:
				response.LeaveDays++
			}
		}

		response.Days = append(response.Days, entry)
	}

	response.AttendanceRate = attendance.AttendanceRate(7, response.AbsentDays)

	return response, nil
}

// LateReport aggregates late days per student across the range.
func (r *Repository) LateReport(ctx context.Context, filter ReportFilter) ([]LateReportRow, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	days, err := r.dailyStatuses(ctx, filter.From, filter.To)
	if err != nil {
		return nil, err
	}

	minLateCount := 0
	if filter.MinLateCount != nil {
		minLateCount = *filter.MinLateCount
	}

	folded := attendance.LateReport(days, minLateCount)

	names, err := r.studentNames(ctx, studentIDsOfLate(folded))
	if err != nil {
		return nil, err
	}

	rows := make([]LateReportRow, 0, len(folded))
	for _, f := range folded {
		row := LateReportRow{
			StudentID:        f.StudentID,
			LateCount:        f.LateCount,
			TotalLateMinutes: f.TotalLateMinutes,
		}
		lastLate := date.Date{Time: f.LastLateDay}
		row.LastLateDay = &lastLate
		if n, ok := names[f.StudentID]; ok {
			row.StudentCode = n.code
			row.StudentName = n.name
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// AbsentReport aggregates absent days per student across the range and
// attaches the attendance rate over the range's calendar days.
func (r *Repository) AbsentReport(ctx context.Context, filter ReportFilter) ([]AbsentReportRow, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	days, err := r.dailyStatuses(ctx, filter.From, filter.To)
	if err != nil {
		return nil, err
	}

	folded := attendance.AbsentReport(days)

	daysInRange := int(filter.To.Sub(filter.From.Time).Hours()/24) + 1

	names, err := r.studentNames(ctx, studentIDsOfAbsent(folded))
	if err != nil {
		return nil, err
	}

	rows := make([]AbsentReportRow, 0, len(folded))
	for _, f := range folded {
		row := AbsentReportRow{
			StudentID:      f.StudentID,
			AbsentCount:    f.AbsentCount,
			AttendanceRate: attendance.AttendanceRate(daysInRange, f.AbsentCount),
		}
		lastAbsent := date.Date{Time: f.LastAbsentDay}
		row.LastAbsentDay = &lastAbsent
		for _, d := range f.AbsentDays {
			row.AbsentDays = append(row.AbsentDays, date.Date{Time: d})
		}
		if n, ok := names[f.StudentID]; ok {
			row.StudentCode = n.code
			row.StudentName = n.name
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// dailyStatuses builds the derived per-student-day statuses for a range by
// folding the stored records through the aggregator, leave applied.
func (r *Repository) dailyStatuses(ctx context.Context, from, to date.Date) ([]attendance.DailyStatus, error) {
	fromStr := from.Format(dayLayout)
	toStr := to.Format(dayLayout)

	query := fmt.Sprintf(`
		SELECT student_id, work_day, status, lateness_minutes
		FROM attendance_record
		WHERE deleted_at IS NULL AND work_day BETWEEN '%s' AND '%s'
	`, fromStr, toStr)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting range records"), http.StatusInternalServerError)
	}
	defer rows.Close()

	grouped := make(map[dayKey][]attendance.DayRecord)
	students := make(map[int]bool)

	for rows.Next() {
		var raw rawRow
		var workDay string
		var status string
		var lateness *int
		if err := rows.Scan(&raw.studentID, &workDay, &status, &lateness); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning range records"), http.StatusBadRequest)
		}
		raw.day = workDay
		raw.status = attendance.Status(status)
		if lateness != nil {
			raw.lateness = *lateness
		}

		key := dayKey{studentID: raw.studentID, day: raw.day}
		grouped[key] = append(grouped[key], attendance.DayRecord{
			Status:          raw.status,
			LatenessMinutes: raw.lateness,
		})
		students[raw.studentID] = true
	}

	ids := make([]int, 0, len(students))
	for id := range students {
		ids = append(ids, id)
	}

	approved, err := r.approvedLeaveRanges(ctx, ids, fromStr, toStr)
	if err != nil {
		return nil, err
	}

	var days []attendance.DailyStatus
	for key, records := range grouped {
		dayTime, err := time.ParseInLocation(dayLayout, key.day, r.loc)
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "parsing work day"), http.StatusBadRequest)
		}
		daily, ok := attendance.AggregateDay(key.studentID, dayTime, records, approved[key.studentID])
		if !ok {
			continue
		}
		days = append(days, daily)
	}

	return days, nil
}

// approvedLeaveRanges loads the approved leave windows overlapping
// [from, to] for the given students, keyed by student id. An empty id list
// yields an empty map.
func (r *Repository) approvedLeaveRanges(ctx context.Context, studentIDs []int, from, to string) (map[int][]attendance.DateRange, error) {
	ranges := make(map[int][]attendance.DateRange)
	if len(studentIDs) == 0 {
		return ranges, nil
	}

	ids := make([]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		ids = append(ids, fmt.Sprintf("%d", id))
	}

	query := fmt.Sprintf(`
		SELECT student_id, date_from, date_to
		FROM leave_request
		WHERE deleted_at IS NULL
		  AND status = 'approved'
		  AND student_id IN (%s)
		  AND date_from <= '%s'
		  AND date_to >= '%s'
	`, strings.Join(ids, ","), to, from)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting approved leave"), http.StatusInternalServerError)
	}
	defer rows.Close()

	for rows.Next() {
		var studentID int
		var dateFrom, dateTo string
		if err := rows.Scan(&studentID, &dateFrom, &dateTo); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning approved leave"), http.StatusBadRequest)
		}

		fromTime, err := time.Parse(dayLayout, dateFrom)
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "parsing leave date_from"), http.StatusBadRequest)
		}
		toTime, err := time.Parse(dayLayout, dateTo)
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "parsing leave date_to"), http.StatusBadRequest)
		}

		ranges[studentID] = append(ranges[studentID], attendance.DateRange{From: fromTime, To: toTime})
	}

	return ranges, nil
}

func (r *Repository) resolveSession(ctx context.Context, subjectID *int, day string, instant time.Time) (*attendance.Session, error) {
	sessions, err := r.schedule.SessionsForDay(ctx, day)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "loading day schedule"), http.StatusInternalServerError)
	}

	index := attendance.NewIndex(sessions)

	if subjectID != nil {
		for _, s := range index.Sessions() {
			if s.SubjectID == *subjectID {
				match := s
				return &match, nil
			}
		}
		return nil, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	if s, ok := index.ActiveAt(instant); ok {
		return &s, nil
	}

	// No active subject: gate event.
	return nil, nil
}

func (r *Repository) keyedState(ctx context.Context, key attendance.Key) (attendance.RecordState, int, error) {
	var detail entity.AttendanceRecord

	q := r.NewSelect().Model(&detail).
		Where("student_id = ? AND work_day = ? AND deleted_at IS NULL", key.StudentID, key.WorkDay)
	if key.SubjectID == nil {
		q = q.Where("subject_id IS NULL")
	} else {
		q = q.Where("subject_id = ?", *key.SubjectID)
	}

	err := q.Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.StateNone, 0, nil
	}
	if err != nil {
		return attendance.StateNone, 0, web.NewRequestError(errors.Wrap(err, "selecting keyed record"), http.StatusInternalServerError)
	}

	if detail.LeaveTime != nil {
		return attendance.StateClosed, detail.ID, nil
	}
	return attendance.StateOpen, detail.ID, nil
}

// latestOpenRecord returns the id of the most recently opened record of the
// student-day that has no check-out yet, or 0.
func (r *Repository) latestOpenRecord(ctx context.Context, studentID int, day string) (int, error) {
	var detail entity.AttendanceRecord

	err := r.NewSelect().Model(&detail).
		Where("student_id = ? AND work_day = ? AND leave_time IS NULL AND come_time IS NOT NULL AND deleted_at IS NULL", studentID, day).
		Order("come_time DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, web.NewRequestError(errors.Wrap(err, "selecting open record"), http.StatusInternalServerError)
	}

	return detail.ID, nil
}

func (r *Repository) studentExists(ctx context.Context, id int) error {
	exists, err := r.NewSelect().Model((*entity.Student)(nil)).
		Where("id = ? AND deleted_at IS NULL", id).
		Exists(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking student"), http.StatusInternalServerError)
	}
	if !exists {
		return web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "student"), http.StatusNotFound)
	}
	return nil
}

func (r *Repository) subjectStart(ctx context.Context, subjectID int) (*time.Time, error) {
	var detail entity.Subject
	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", subjectID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting subject"), http.StatusInternalServerError)
	}
	return detail.StartsAt, nil
}

type studentName struct {
	code *string
	name *string
}

func (r *Repository) studentNames(ctx context.Context, ids []int) (map[int]studentName, error) {
	names := make(map[int]studentName)
	if len(ids) == 0 {
		return names, nil
	}

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}

	query := fmt.Sprintf(`
		SELECT id, student_code, first_name || ' ' || last_name
		FROM students
		WHERE id IN (%s)
	`, strings.Join(parts, ","))

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting student names"), http.StatusInternalServerError)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var n studentName
		if err := rows.Scan(&id, &n.code, &n.name); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning student names"), http.StatusBadRequest)
		}
		names[id] = n
	}

	return names, nil
}

// parseClock interprets an HH:MM edit against the record's work day.
func (r *Repository) parseClock(detail entity.AttendanceRecord, clock string) (time.Time, error) {
	day := time.Now().In(r.loc).Format(dayLayout)
	if detail.WorkDay != nil {
		day = *detail.WorkDay
	}
	return time.ParseInLocation("2006-01-02 15:04", day+" "+clock, r.loc)
}

func studentIDsOfLate(rows []attendance.LateRow) []int {
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StudentID)
	}
	return ids
}

func studentIDsOfAbsent(rows []attendance.AbsentRow) []int {
	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.StudentID)
	}
	return ids
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
