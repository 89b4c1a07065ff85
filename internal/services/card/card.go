package card

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Jidetireni/adyc-membership/internal/constants"
	"github.com/Jidetireni/adyc-membership/internal/repository"
	"github.com/go-pdf/fpdf"
)

// ErrRender marks a member record that cannot be put on a card.
var ErrRender = errors.New("card render failed")

// ISO/IEC 7810 ID-1, in millimetres.
const (
	cardWidth  = 85.6
	cardHeight = 53.98

	font          = "Helvetica"
	headerH       = 10.0
	footerH       = 9.0
	pad           = 3.5
	dobLayout     = "02 Jan 2006"
	watermarkStep = 14.0
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Filename is the attachment and download name for a member's card.
func Filename(memberID string) string {
	return fmt.Sprintf("%s-ID-%s.pdf", constants.OrganizationInitials, memberID)
}

// Render produces a two-page PDF. The output depends only on the member
// record, so identical records yield identical bytes.
func (r *Renderer) Render(member *repository.Member) ([]byte, error) {
	if member == nil {
		return nil, fmt.Errorf("%w: nil member", ErrRender)
	}
	if missing := missingFields(member); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrRender, strings.Join(missing, ", "))
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cardHeight, Ht: cardWidth},
	})

	stamp := member.RegisteredAt.UTC()
	if stamp.IsZero() {
		stamp = time.Unix(0, 0).UTC()
	}
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	pdf.SetTitle(constants.OrganizationInitials+" Membership Card "+member.MemberID, true)
	pdf.SetAuthor(constants.OrganizationName, true)
	pdf.SetCreator(constants.OrganizationName, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawFront(pdf, tr, member)
	drawBack(pdf, tr)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func missingFields(m *repository.Member) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("full_name", m.FullName)
	check("member_id", m.MemberID)
	check("email", m.Email)
	check("state", m.State)
	check("gender", m.Gender)
	if m.DateOfBirth.IsZero() {
		missing = append(missing, "date_of_birth")
	}
	check("serial_number", m.SerialNumber)
	return missing
}

// issueYear reads the year embedded in the member id, falling back to the
// registration date.
func issueYear(m *repository.Member) string {
	parts := strings.Split(m.MemberID, "-")
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[1]); err == nil && len(parts[1]) == 4 {
			return parts[1]
		}
	}
	if !m.RegisteredAt.IsZero() {
		return strconv.Itoa(m.RegisteredAt.Year())
	}
	return ""
}

func fill(pdf *fpdf.Fpdf, c [3]int) {
	pdf.SetFillColor(c[0], c[1], c[2])
}

func ink(pdf *fpdf.Fpdf, c [3]int) {
	pdf.SetTextColor(c[0], c[1], c[2])
}

func drawFront(pdf *fpdf.Fpdf, tr func(string) string, m *repository.Member) {
	pdf.AddPage()

	fill(pdf, constants.CardSurface)
	pdf.Rect(0, 0, cardWidth, cardHeight, "F")

	drawWatermark(pdf)

	// header
	ink(pdf, constants.BrandGreen)
	pdf.SetFont(font, "B", 8.5)
	pdf.SetXY(pad, 2.5)
	pdf.CellFormat(cardWidth-2*pad, 5, tr(strings.ToUpper(constants.OrganizationName)), "", 1, "C", false, 0, "")
	ink(pdf, constants.TextMuted)
	pdf.SetFont(font, "", 5.5)
	pdf.SetX(pad)
	pdf.CellFormat(cardWidth-2*pad, 3, "MEMBERSHIP IDENTITY CARD", "", 0, "C", false, 0, "")

	gold := constants.BrandGold
	pdf.SetDrawColor(gold[0], gold[1], gold[2])
	pdf.SetLineWidth(0.4)
	pdf.Line(pad, headerH+1, cardWidth-pad, headerH+1)

	// photo placeholder
	const photoW, photoH = 17.0, 21.0
	photoY := headerH + 3
	green := constants.BrandGreen
	pdf.SetDrawColor(green[0], green[1], green[2])
	pdf.SetLineWidth(0.3)
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(pad, photoY, photoW, photoH, "FD")
	ink(pdf, constants.TextMuted)
	pdf.SetFont(font, "", 5)
	pdf.SetXY(pad, photoY+photoH/2-1.5)
	pdf.CellFormat(photoW, 3, "PHOTO", "", 0, "C", false, 0, "")

	leftX := pad + photoW + 3
	colW := (cardWidth - leftX - pad) / 2
	rightX := leftX + colW

	y := headerH + 3
	field(pdf, tr, leftX, y, colW, "NAME", strings.ToUpper(m.FullName))
	field(pdf, tr, rightX, y, colW, "EMAIL", m.Email)
	y += 7
	field(pdf, tr, leftX, y, colW, "MEMBER ID", m.MemberID)
	field(pdf, tr, rightX, y, colW, "GENDER", strings.ToUpper(m.Gender))
	y += 7
	field(pdf, tr, leftX, y, colW, "STATE", m.State)
	field(pdf, tr, rightX, y, colW, "DATE OF BIRTH", m.DateOfBirth.Format(dobLayout))

	// footer
	footerY := cardHeight - footerH
	fill(pdf, constants.BrandGreen)
	pdf.Rect(0, footerY, cardWidth, footerH, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(font, "B", 6)
	pdf.SetXY(pad, footerY+1.2)
	pdf.CellFormat(cardWidth/2-pad, 3, "S/N: "+m.SerialNumber, "", 0, "L", false, 0, "")
	pdf.SetXY(cardWidth/2, footerY+1.2)
	pdf.CellFormat(cardWidth/2-pad, 3, "VALID NATIONWIDE - ISSUED "+issueYear(m), "", 0, "R", false, 0, "")

	ink(pdf, constants.BrandGold)
	pdf.SetFont(font, "I", 5.5)
	pdf.SetXY(pad, footerY+4.8)
	pdf.CellFormat(cardWidth-2*pad, 3, tr(constants.OrganizationSlogan), "", 0, "C", false, 0, "")
}

func field(pdf *fpdf.Fpdf, tr func(string) string, x, y, w float64, label, value string) {
	ink(pdf, constants.TextMuted)
	pdf.SetFont(font, "", 4.5)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 2.5, label, "", 0, "L", false, 0, "")

	ink(pdf, constants.TextDark)
	pdf.SetFont(font, "B", 6.5)
	pdf.SetXY(x, y+2.5)
	pdf.CellFormat(w, 3.5, tr(fitText(pdf, value, w)), "", 0, "L", false, 0, "")
}

// fitText trims value with an ellipsis until it fits in w at the current font.
func fitText(pdf *fpdf.Fpdf, value string, w float64) string {
	if pdf.GetStringWidth(value) <= w {
		return value
	}
	runes := []rune(value)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if pdf.GetStringWidth(candidate) <= w {
			return candidate
		}
	}
	return value
}

func drawWatermark(pdf *fpdf.Fpdf) {
	pdf.SetAlpha(0.06, "Normal")
	ink(pdf, constants.BrandGreen)
	pdf.SetFont(font, "B", 9)

	row := 0
	for y := 6.0; y < cardHeight+watermarkStep; y += watermarkStep / 2 {
		offset := 0.0
		if row%2 == 1 {
			offset = watermarkStep / 2
		}
		for x := -watermarkStep + offset; x < cardWidth+watermarkStep; x += watermarkStep {
			pdf.TransformBegin()
			pdf.TransformRotate(30, x, y)
			pdf.Text(x, y, constants.OrganizationInitials)
			pdf.TransformEnd()
		}
		row++
	}

	pdf.SetAlpha(1, "Normal")
}

func drawBack(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.AddPage()

	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(0, 0, cardWidth, cardHeight, "F")

	// header
	fill(pdf, constants.BrandGreen)
	pdf.Rect(0, 0, cardWidth, headerH, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(font, "B", 7)
	pdf.SetXY(pad, 1.5)
	pdf.CellFormat(cardWidth-2*pad, 4, tr(strings.ToUpper(constants.OrganizationName)), "", 1, "C", false, 0, "")
	ink(pdf, constants.BrandGold)
	pdf.SetFont(font, "", 5)
	pdf.SetX(pad)
	pdf.CellFormat(cardWidth-2*pad, 3, "MEMBERSHIP TERMS & CONDITIONS", "", 0, "C", false, 0, "")

	// terms
	ink(pdf, constants.TextDark)
	pdf.SetFont(font, "", 4.8)
	pdf.SetXY(pad, headerH+2)
	for i, term := range constants.CardTerms {
		pdf.SetX(pad)
		pdf.MultiCell(cardWidth-2*pad, 2.6, tr(fmt.Sprintf("%d. %s", i+1, term)), "", "L", false)
	}

	// contact
	contactY := cardHeight - footerH - 8
	ink(pdf, constants.BrandGreen)
	pdf.SetFont(font, "B", 5)
	pdf.SetXY(pad, contactY)
	pdf.CellFormat(cardWidth-2*pad, 3, "CONTACT", "", 1, "L", false, 0, "")
	ink(pdf, constants.TextMuted)
	pdf.SetFont(font, "", 5)
	pdf.SetX(pad)
	pdf.CellFormat(cardWidth-2*pad, 3,
		fmt.Sprintf("Tel: %s   Email: %s", constants.OrganizationPhone, constants.OrganizationEmail),
		"", 0, "L", false, 0, "")

	// footer
	footerY := cardHeight - footerH
	fill(pdf, constants.BrandGreen)
	pdf.Rect(0, footerY, cardWidth, footerH, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(font, "B", 5.5)
	pdf.SetXY(pad, footerY+1.2)
	pdf.CellFormat(cardWidth-2*pad, 3, "OFFICIAL MEMBERSHIP CARD", "", 1, "C", false, 0, "")
	ink(pdf, constants.BrandGold)
	pdf.SetFont(font, "", 5)
	pdf.SetX(pad)
	pdf.CellFormat(cardWidth-2*pad, 3, strings.Join(constants.SocialHandles, "  |  "), "", 0, "C", false, 0, "")
}
