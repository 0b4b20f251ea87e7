package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
)

const badgeDir = "statics/badges"

const qrPixels = 256

type Badge struct {
	StudentCode string
	FullName    string
	ClassGroup  string
}

// BadgePNG renders the scan code of one student as a PNG image.
func BadgePNG(studentCode string) ([]byte, error) {
	qr, err := qrcode.New(studentCode, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generating qr code: %w", err)
	}

	// render at the native module size, then upscale with nearest neighbour
	// so the modules stay crisp for scanners
	src := qr.Image(0)
	dst := image.NewRGBA(image.Rect(0, 0, qrPixels, qrPixels))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding qr png: %w", err)
	}

	return buf.Bytes(), nil
}

// BadgeSheetPDF lays the badges out on A4 pages, three columns by four rows,
// and returns the path of the written file.
func BadgeSheetPDF(badges []Badge, fileName string) (string, error) {
	if err := os.MkdirAll(badgeDir, os.ModePerm); err != nil {
		return "", err
	}

	const (
		cellW   = 63.0
		cellH   = 68.0
		qrSize  = 42.0
		marginX = 10.0
		marginY = 12.0
		cols    = 3
		rows    = 4
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 9)

	for i, b := range badges {
		slot := i % (cols * rows)
		if slot == 0 {
			pdf.AddPage()
		}

		x := marginX + float64(slot%cols)*cellW
		y := marginY + float64(slot/cols)*cellH

		img, err := BadgePNG(b.StudentCode)
		if err != nil {
			return "", err
		}

		name := fmt.Sprintf("badge-%d", i)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(img))
		pdf.ImageOptions(name, x+(cellW-qrSize)/2, y, qrSize, qrSize, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		pdf.SetXY(x, y+qrSize+2)
		pdf.CellFormat(cellW, 4, b.StudentCode, "", 2, "C", false, 0, "")
		pdf.CellFormat(cellW, 4, b.FullName, "", 2, "C", false, 0, "")
		pdf.CellFormat(cellW, 4, b.ClassGroup, "", 2, "C", false, 0, "")
	}

	path := filepath.Join(badgeDir, fileName)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("writing badge sheet: %w", err)
	}

	return path, nil
}
