package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jung-kurt/gofpdf"
)

// ISO/IEC 7810 ID-1 card dimensions in millimetres.
const (
	CardWidthMM  = 53.98
	CardHeightMM = 85.6
)

// Front-page layout constants. Positions are tied to the card template
// artwork; relative placement (photo upper-left, name upper-middle, details
// below, QR lower-right, roll number bottom-left) must be preserved when
// templates change.
const (
	photoX, photoY   = 3.5, 11.0
	photoW, photoH   = 20.0, 25.0
	nameY            = 42.0
	detailX, detailY = 4.5, 52.0
	detailLineH      = 5.0
	qrSize           = 16.0
)

// IDCardData carries the resolved resources and student values for one card.
// All four binary resources must be present before rendering starts.
type IDCardData struct {
	Name          string
	RollNumber    string
	Gender        string
	Mobile        string
	BloodGroup    string
	Expiry        time.Time
	FrontTemplate []byte
	BackTemplate  []byte
	Photo         []byte
	QRCode        []byte
}

// RenderIDCard produces the two-page (front/back) card PDF. It assumes the
// caller has already resolved every resource; a missing one here is a
// programming error, reported without partial output.
func RenderIDCard(d IDCardData) ([]byte, error) {
	if len(d.FrontTemplate) == 0 || len(d.BackTemplate) == 0 || len(d.Photo) == 0 || len(d.QRCode) == 0 {
		return nil, errors.New("id card resources incomplete")
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: CardWidthMM, Ht: CardHeightMM},
	})
	pdf.SetTitle(fmt.Sprintf("ID Card %s", d.RollNumber), false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	if err := renderFront(pdf, d); err != nil {
		return nil, err
	}
	if err := renderBack(pdf, d); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render id card: %w", err)
	}

	return buf.Bytes(), nil
}

func renderFront(pdf *gofpdf.Fpdf, d IDCardData) error {
	pdf.AddPage()

	if err := placeImage(pdf, "front-template", d.FrontTemplate, 0, 0, CardWidthMM, CardHeightMM); err != nil {
		return err
	}
	if err := placeImage(pdf, "photo", d.Photo, photoX, photoY, photoW, photoH); err != nil {
		return err
	}
	if err := placeImage(pdf, "qr", d.QRCode, CardWidthMM-qrSize-3, CardHeightMM-qrSize-7, qrSize, qrSize); err != nil {
		return err
	}

	first, last := splitName(d.Name)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(0, nameY)
	pdf.CellFormat(CardWidthMM, 4.5, first, "", 1, "C", false, 0, "")
	if last != "" {
		pdf.CellFormat(CardWidthMM, 4.5, last, "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 6.5)
	details := []string{
		fmt.Sprintf("Gender: %s", d.Gender),
		fmt.Sprintf("Valid Till: %s", d.Expiry.Format("02/01/2006")),
		fmt.Sprintf("Mobile: %s", d.Mobile),
		fmt.Sprintf("Blood Group: %s", d.BloodGroup),
	}
	for i, line := range details {
		pdf.Text(detailX, detailY+float64(i)*detailLineH, line)
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(160, 20, 20)
	pdf.Text(detailX, CardHeightMM-4, d.RollNumber)

	return nil
}

func renderBack(pdf *gofpdf.Fpdf, d IDCardData) error {
	pdf.AddPage()

	if err := placeImage(pdf, "back-template", d.BackTemplate, 0, 0, CardWidthMM, CardHeightMM); err != nil {
		return err
	}

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(0, CardHeightMM/2)
	pdf.CellFormat(CardWidthMM, 5, d.RollNumber, "", 1, "C", false, 0, "")

	return nil
}

func placeImage(pdf *gofpdf.Fpdf, name string, payload []byte, x, y, w, h float64) error {
	imageType, err := detectImageType(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(payload))
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to place %s: %w", name, err)
	}
	return nil
}

func detectImageType(payload []byte) (string, error) {
	switch mimetype.Detect(payload).String() {
	case "image/png":
		return "PNG", nil
	case "image/jpeg":
		return "JPG", nil
	default:
		return "", errors.New("unsupported image format")
	}
}

func splitName(name string) (string, string) {
	trimmed := strings.TrimSpace(name)
	idx := strings.LastIndex(trimmed, " ")
	if idx < 0 {
		return trimmed, ""
	}
	return strings.TrimSpace(trimmed[:idx]), strings.TrimSpace(trimmed[idx+1:])
}
