package attendance

import (
	"errors"
	"net/http"
	"reflect"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/repository/postgres/record"
)

type Controller struct {
	record  Record
	student Student
}

func NewController(record Record, student Student) *Controller {
	return &Controller{record, student}
}

// Attendance

func (uc Controller) GetList(c *web.Context) error {
	var filter record.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if date, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = date
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if classGroupId, ok := c.GetQueryFunc(reflect.Int, "class_group_id").(*int); ok {
		filter.ClassGroupID = classGroupId
	}
	if subjectId, ok := c.GetQueryFunc(reflect.Int, "subject_id").(*int); ok {
		filter.SubjectID = subjectId
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filter.Status = status
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.record.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.record.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// MarkEvent accepts a manual mark from the admin panel. The repository
// decides whether the event opens or closes a record.
func (uc Controller) MarkEvent(c *web.Context) error {
	var request record.MarkEventRequest
	if err := c.BindFunc(&request, "StudentID"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.record.MarkEvent(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// MarkByCode accepts a badge scan. The scanned code is resolved to a
// student, the rest goes through the same path as a manual mark.
func (uc Controller) MarkByCode(c *web.Context) error {
	var request ScanRequest
	if err := c.BindFunc(&request, "StudentCode"); err != nil {
		return c.RespondError(err)
	}

	student, err := uc.student.GetByCode(c.Ctx, request.StudentCode)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.record.MarkEvent(c.Ctx, record.MarkEventRequest{
		StudentID: &student.ID,
		SubjectID: request.SubjectID,
		Instant:   request.Instant,
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) MarkBulkAbsent(c *web.Context) error {
	var request record.BulkAbsentRequest
	if err := c.BindFunc(&request, "StudentIDs"); err != nil {
		return c.RespondError(err)
	}

	if len(request.StudentIDs) == 0 {
		return c.RespondError(web.NewRequestError(errors.New("student_ids must not be empty"), http.StatusBadRequest))
	}

	results, err := uc.record.MarkBulkAbsent(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": results,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request record.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	err := uc.record.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.record.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
