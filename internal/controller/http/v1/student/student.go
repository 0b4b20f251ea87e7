package student

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"reflect"
	"time"

	"rollbook/backend/foundation/web"
	"rollbook/backend/internal/repository/postgres/student"
	"rollbook/backend/internal/service"
)

type Controller struct {
	student Student
}

func NewController(student Student) *Controller {
	return &Controller{student}
}

func (uc Controller) GetStudentList(c *web.Context) error {
	var filter student.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if classGroupId, ok := c.GetQueryFunc(reflect.Int, "class_group_id").(*int); ok {
		filter.ClassGroupID = classGroupId
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.student.GetList(c.Ctx, filter)
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

// GetBadge serves a single scan code as a PNG image.
func (uc Controller) GetBadge(c *web.Context) error {
	studentCode := c.Query("student_code")
	if studentCode == "" {
		return c.RespondError(web.NewRequestError(errors.New("student_code parameter is required"), http.StatusBadRequest))
	}

	detail, err := uc.student.GetByCode(c.Ctx, studentCode)
	if err != nil {
		return c.RespondError(err)
	}

	img, err := service.BadgePNG(*detail.StudentCode)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Type", "image/png")
	c.Header("Content-Disposition", "inline; filename="+*detail.StudentCode+".png")
	c.Status(http.StatusOK)
	if _, err = c.Writer.Write(img); err != nil {
		return c.RespondError(err)
	}

	return nil
}

// GetBadgeSheet generates a printable PDF with the badges of every student,
// optionally narrowed to one class group.
func (uc Controller) GetBadgeSheet(c *web.Context) error {
	var classGroupId *int
	if id, ok := c.GetQueryFunc(reflect.Int, "class_group_id").(*int); ok {
		classGroupId = id
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	entries, err := uc.student.BadgeList(c.Ctx, classGroupId)
	if err != nil {
		return c.RespondError(err)
	}

	badges := make([]service.Badge, 0, len(entries))
	for _, entry := range entries {
		badges = append(badges, service.Badge{
			StudentCode: entry.StudentCode,
			FullName:    entry.FullName,
			ClassGroup:  entry.ClassGroup,
		})
	}

	fileName := fmt.Sprintf("badges_%d.pdf", time.Now().Unix())
	path, err := service.BadgeSheetPDF(badges, fileName)
	if err != nil {
		return c.RespondError(err)
	}

	file, err := os.Open(path)
	if err != nil {
		return c.RespondError(err)
	}
	defer file.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\"badges.pdf\"")
	if _, err = io.Copy(c.Writer, file); err != nil {
		return c.RespondError(err)
	}

	return nil
}
