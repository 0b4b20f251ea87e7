package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const reportDir = "statics/reports"

type LateReportEntry struct {
	StudentCode          string
	FullName             string
	LateCount            int
	TotalLatenessMinutes int
}

type AbsentReportEntry struct {
	StudentCode    string
	FullName       string
	AbsentCount    int
	AbsentDays     []string
	AttendanceRate float64
}

// BuildLateReportXLSX writes the late report to an xlsx file and returns its path.
func BuildLateReportXLSX(entries []LateReportEntry, fileName string) (string, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Student Code", "Full Name", "Late Count", "Total Lateness (min)"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, entry := range entries {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.StudentCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.LateCount)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), entry.TotalLatenessMinutes)
		rowNum++
	}

	return saveReport(f, fileName)
}

// BuildAbsentReportXLSX writes the absent report to an xlsx file and returns its path.
func BuildAbsentReportXLSX(entries []AbsentReportEntry, fileName string) (string, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Student Code", "Full Name", "Absent Count", "Absent Days", "Attendance Rate (%)"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, entry := range entries {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.StudentCode)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.AbsentCount)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), strings.Join(entry.AbsentDays, ", "))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), entry.AttendanceRate)
		rowNum++
	}

	return saveReport(f, fileName)
}

func saveReport(f *excelize.File, fileName string) (string, error) {
	if err := os.MkdirAll(reportDir, os.ModePerm); err != nil {
		return "", err
	}

	path := filepath.Join(reportDir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	return path, nil
}
