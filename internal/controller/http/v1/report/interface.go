package report

import (
	"context"

	"rollbook/backend/internal/repository/postgres/record"

	"github.com/Azure/go-autorest/autorest/date"
)

type Record interface {
	DailyStatus(ctx context.Context, studentID int, day string) (record.DailyStatusResponse, error)
	WeeklySummary(ctx context.Context, studentID int, weekStart date.Date) (record.WeeklySummaryResponse, error)
	LateReport(ctx context.Context, filter record.ReportFilter) ([]record.LateReportRow, error)
	AbsentReport(ctx context.Context, filter record.ReportFilter) ([]record.AbsentReportRow, error)
}
