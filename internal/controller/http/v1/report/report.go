package report

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"time"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/repository/postgres/record"
	"rollbook/backend/internal/service"

	"github.com/Azure/go-autorest/autorest/date"
)

type Controller struct {
	record Record
}

func NewController(record Record) *Controller {
	return &Controller{record}
}

func (uc Controller) GetDailyStatus(c *web.Context) error {
	studentId, ok := c.GetQueryFunc(reflect.Int, "student_id").(*int)
	if !ok || studentId == nil {
		return c.RespondError(web.NewRequestError(errors.New("student_id parameter is required"), http.StatusBadRequest))
	}

	day := c.Query("date")
	if day == "" {
		return c.RespondError(web.NewRequestError(errors.New("date parameter is required"), http.StatusBadRequest))
	}
	if _, err := date.ParseDate(day); err != nil {
		return c.RespondError(web.NewRequestError(errors.New("invalid date format"), http.StatusBadRequest))
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.record.DailyStatus(c.Ctx, *studentId, day)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetWeeklySummary(c *web.Context) error {
	studentId, ok := c.GetQueryFunc(reflect.Int, "student_id").(*int)
	if !ok || studentId == nil {
		return c.RespondError(web.NewRequestError(errors.New("student_id parameter is required"), http.StatusBadRequest))
	}

	weekStartStr := c.Query("week_start")
	if weekStartStr == "" {
		return c.RespondError(web.NewRequestError(errors.New("week_start parameter is required"), http.StatusBadRequest))
	}
	weekStart, err := date.ParseDate(weekStartStr)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.New("invalid date format"), http.StatusBadRequest))
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.record.WeeklySummary(c.Ctx, *studentId, weekStart)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetLateReport(c *web.Context) error {
	filter, err := uc.reportFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	if minLateCount, ok := c.GetQueryFunc(reflect.Int, "min_late_count").(*int); ok {
		filter.MinLateCount = minLateCount
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, err := uc.record.LateReport(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetAbsentReport(c *web.Context) error {
	filter, err := uc.reportFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	list, err := uc.record.AbsentReport(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
		},
		"status": true,
	}, http.StatusOK)
}

// ExportLateReport streams the late report as an xlsx download.
func (uc Controller) ExportLateReport(c *web.Context) error {
	filter, err := uc.reportFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	if minLateCount, ok := c.GetQueryFunc(reflect.Int, "min_late_count").(*int); ok {
		filter.MinLateCount = minLateCount
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	rows, err := uc.record.LateReport(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	entries := make([]service.LateReportEntry, 0, len(rows))
	for _, row := range rows {
		entry := service.LateReportEntry{
			LateCount:            row.LateCount,
			TotalLatenessMinutes: row.TotalLateMinutes,
		}
		if row.StudentCode != nil {
			entry.StudentCode = *row.StudentCode
		}
		if row.StudentName != nil {
			entry.FullName = *row.StudentName
		}
		entries = append(entries, entry)
	}

	fileName := fmt.Sprintf("late_report_%d.xlsx", time.Now().Unix())
	path, err := service.BuildLateReportXLSX(entries, fileName)
	if err != nil {
		return c.RespondError(err)
	}

	return uc.respondFile(c, path, fileName)
}

// ExportAbsentReport streams the absent report as an xlsx download.
func (uc Controller) ExportAbsentReport(c *web.Context) error {
	filter, err := uc.reportFilter(c)
	if err != nil {
		return c.RespondError(err)
	}

	rows, err := uc.record.AbsentReport(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	entries := make([]service.AbsentReportEntry, 0, len(rows))
	for _, row := range rows {
		entry := service.AbsentReportEntry{
			AbsentCount:    row.AbsentCount,
			AttendanceRate: row.AttendanceRate,
		}
		if row.StudentCode != nil {
			entry.StudentCode = *row.StudentCode
		}
		if row.StudentName != nil {
			entry.FullName = *row.StudentName
		}
		for _, day := range row.AbsentDays {
			entry.AbsentDays = append(entry.AbsentDays, day.String())
		}
		entries = append(entries, entry)
	}

	fileName := fmt.Sprintf("absent_report_%d.xlsx", time.Now().Unix())
	path, err := service.BuildAbsentReportXLSX(entries, fileName)
	if err != nil {
		return c.RespondError(err)
	}

	return uc.respondFile(c, path, fileName)
}

func (uc Controller) reportFilter(c *web.Context) (record.ReportFilter, error) {
	var filter record.ReportFilter

	fromStr := c.Query("from")
	if fromStr == "" {
		return filter, web.NewRequestError(errors.New("from parameter is required"), http.StatusBadRequest)
	}
	from, err := date.ParseDate(fromStr)
	if err != nil {
		return filter, web.NewRequestError(errors.New("invalid date format"), http.StatusBadRequest)
	}
	filter.From = from

	toStr := c.Query("to")
	if toStr == "" {
		return filter, web.NewRequestError(errors.New("to parameter is required"), http.StatusBadRequest)
	}
	to, err := date.ParseDate(toStr)
	if err != nil {
		return filter, web.NewRequestError(errors.New("invalid date format"), http.StatusBadRequest)
	}
	filter.To = to

	if to.Before(from.Time) {
		return filter, web.NewRequestError(errors.New("to must not be before from"), http.StatusBadRequest)
	}

	return filter, nil
}

func (uc Controller) respondFile(c *web.Context, path, fileName string) error {
	file, err := os.Open(path)
	if err != nil {
		return c.RespondError(err)
	}
	defer file.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Status(http.StatusOK)
	if _, err = io.Copy(c.Writer, file); err != nil {
		return c.RespondError(err)
	}

	return nil
}
