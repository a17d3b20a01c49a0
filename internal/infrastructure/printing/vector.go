package printing

import (
	"bytes"
	"context"
	_ "embed"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"github.com/theplanbeta/invoice/internal/domain/printing"
	"go.uber.org/zap"
)

// Page geometry in millimetres on A4 portrait
const (
	pageWidth        = 210.0
	headerHeight     = 45.0
	leftColumnX      = 20.0
	rightColumnX     = 120.0
	billToWrapWidth  = 80.0
	dueDateY         = 90.0
	tableTop         = 100.0
	tableLeft        = 15.0
	tableWidth       = 180.0
	rowStep          = 12.0
	amountRight      = 180.0
	totalsLabelX     = 145.0
	notesLeft        = 18.0
	notesWidth       = 175.0
	notesLineHeight  = 4.5
	notesBottomLimit = 240.0
	paymentY         = 251.0
	footerTop        = 267.0
	footerHeight     = 30.0
)

const (
	coreFamily    = "Helvetica"
	unicodeFamily = "Invoice"
)

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	embeddedRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	embeddedBold []byte
)

// VectorConfig contains configuration for the gofpdf renderer
type VectorConfig struct {
	// UnicodeFont replaces the embedded DejaVu Sans Condensed face
	UnicodeFont string
	// UnicodeBoldFont is the bold face; defaults to UnicodeFont
	UnicodeBoldFont string
	// CoreFonts draws with the built-in Helvetica instead of an embedded
	// TrueType face. Symbols outside cp1252 are spelled out (₹ as Rs.).
	CoreFonts bool
	// DisableCompression leaves content streams readable
	DisableCompression bool
	// Clock stamps the document creation date
	Clock func() time.Time
	// Logger for operations
	Logger *zap.Logger
}

// VectorRenderer draws the invoice directly as a PDF with gofpdf
type VectorRenderer struct {
	config *VectorConfig
	logger *zap.Logger
}

// NewVectorRenderer creates a new gofpdf-based renderer
func NewVectorRenderer(config *VectorConfig) *VectorRenderer {
	if config == nil {
		config = &VectorConfig{}
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.UnicodeBoldFont == "" {
		config.UnicodeBoldFont = config.UnicodeFont
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VectorRenderer{config: config, logger: logger}
}

// Formats implements Renderer
func (r *VectorRenderer) Formats() []printing.Format {
	return []printing.Format{printing.FormatPDF}
}

// Render implements Renderer
func (r *VectorRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req, r.Formats()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}

	startTime := time.Now()
	v := req.View

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(r.config.Clock())
	pdf.SetTitle(v.FileStem, true)
	pdf.SetAuthor(v.Issuer.Name, true)
	pdf.SetCompression(!r.config.DisableCompression)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	d := r.newDrawer(pdf, v.Theme)
	pdf.AddPage()

	d.header(v.Header)
	d.issuer(v.Issuer)
	d.billTo(v.BillTo)
	if v.DueDate != "" {
		d.dueDate(v.DueDate)
	}
	y := d.table(v.Table)
	y = d.totals(v.Totals, y)
	d.policy(v.Policy, y)
	d.payment(v.Payment)
	d.footer(v.Footer)

	if pdf.Err() {
		r.logger.Error("gofpdf rendering failed", zap.Error(pdf.Error()))
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to generate PDF", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}

	renderDuration := time.Since(startTime)
	r.logger.Info("PDF rendered successfully",
		zap.String("invoice", v.Header.InvoiceNumber),
		zap.Int("bytes", buf.Len()),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		Data:           buf.Bytes(),
		Format:         printing.FormatPDF,
		PageCount:      1,
		RenderDuration: renderDuration,
	}, nil
}

// pdfDrawer wraps a document with the font and colour state of one render
type pdfDrawer struct {
	pdf    *gofpdf.Fpdf
	family string
	theme  printing.Theme
	encode func(string) string
}

func (r *VectorRenderer) newDrawer(pdf *gofpdf.Fpdf, theme printing.Theme) *pdfDrawer {
	d := &pdfDrawer{pdf: pdf, family: coreFamily, theme: theme}
	if r.config.CoreFonts {
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		d.encode = func(s string) string {
			return tr(strings.ReplaceAll(s, "₹", "Rs."))
		}
		return d
	}

	regular, bold := embeddedRegular, embeddedBold
	if r.config.UnicodeFont != "" {
		var err error
		if regular, err = os.ReadFile(r.config.UnicodeFont); err != nil {
			pdf.SetError(err)
		} else if bold, err = os.ReadFile(r.config.UnicodeBoldFont); err != nil {
			pdf.SetError(err)
		}
	}
	if !pdf.Err() {
		pdf.AddUTF8FontFromBytes(unicodeFamily, "", regular)
		pdf.AddUTF8FontFromBytes(unicodeFamily, "B", bold)
	}
	d.family = unicodeFamily
	d.encode = func(s string) string { return s }
	return d
}

func (d *pdfDrawer) font(style string, size float64) {
	d.pdf.SetFont(d.family, style, size)
}

func (d *pdfDrawer) fill(c printing.RGB) {
	d.pdf.SetFillColor(c.Ints())
}

func (d *pdfDrawer) color(c printing.RGB) {
	d.pdf.SetTextColor(c.Ints())
}

func (d *pdfDrawer) black() {
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *pdfDrawer) white() {
	d.pdf.SetTextColor(255, 255, 255)
}

func (d *pdfDrawer) text(x, y float64, s string) {
	d.pdf.Text(x, y, d.encode(s))
}

func (d *pdfDrawer) width(s string) float64 {
	return d.pdf.GetStringWidth(d.encode(s))
}

func (d *pdfDrawer) textRight(right, y float64, s string) {
	d.pdf.Text(right-d.width(s), y, d.encode(s))
}

func (d *pdfDrawer) textCenter(center, y float64, s string) {
	d.pdf.Text(center-d.width(s)/2, y, d.encode(s))
}

// wrap breaks text into lines no wider than w in the current font
func (d *pdfDrawer) wrap(s string, w float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if d.width(line+" "+word) > w {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}

func (d *pdfDrawer) header(h printing.HeaderView) {
	d.fill(d.theme.Brand)
	d.pdf.Rect(0, 0, pageWidth, headerHeight, "F")

	d.white()
	d.font("B", 28)
	d.text(leftColumnX, 22, h.Brand)
	d.font("", 13)
	d.text(leftColumnX, 31, h.Subtitle)
	d.font("", 10)
	d.text(leftColumnX, 38, h.Tagline)

	d.font("B", 24)
	d.text(155, 22, h.Title)

	d.fill(d.theme.InfoBox)
	d.pdf.RoundedRect(145, 26, 45, 14, 2, "1234", "F")
	d.pdf.SetTextColor(55, 65, 81)
	d.font("", 9)
	d.text(148, 32, "#"+h.InvoiceNumber)
	d.text(148, 37, "Date: "+h.IssueDate)
}

func (d *pdfDrawer) issuer(is printing.IssuerView) {
	d.black()
	d.font("B", 10)
	d.text(leftColumnX, 55, is.Name)
	d.font("", 9)
	y := 61.0
	for _, line := range is.AddressLines {
		d.text(leftColumnX, y, line)
		y += 5
	}
	if is.TaxLine != "" {
		d.text(leftColumnX, y, is.TaxLine)
	}
}

func (d *pdfDrawer) billTo(b printing.BillToView) {
	d.black()
	d.font("B", 11)
	d.text(rightColumnX, 55, "BILL TO:")
	d.font("", 10)
	d.text(rightColumnX, 62, b.Name)

	d.font("", 9)
	y := 68.0
	if b.Address != "" {
		for _, line := range d.wrap(b.Address, billToWrapWidth) {
			d.text(rightColumnX, y, line)
			y += 5
		}
		y += 2
	}
	if b.Email != "" {
		d.text(rightColumnX, y, "Email: "+b.Email)
		y += 5
	}
	if b.Phone != "" {
		d.text(rightColumnX, y, "Phone: "+b.Phone)
	}
}

func (d *pdfDrawer) dueDate(date string) {
	d.black()
	d.font("B", 9)
	d.text(rightColumnX, dueDateY, "Due Date: "+date)
}

// table draws the line items and returns the y below the last row
func (d *pdfDrawer) table(t printing.TableView) float64 {
	d.fill(d.theme.Brand)
	d.pdf.Rect(tableLeft, tableTop, tableWidth, 10, "F")

	d.white()
	d.font("B", 9)
	headerY := tableTop + 6.5
	d.text(18, headerY, "Description")
	d.text(75, headerY, "Level")
	d.text(100, headerY, "Month")
	d.text(125, headerY, "Batch")
	d.text(167, headerY, t.AmountHeader)

	y := tableTop + 16
	for _, row := range t.Rows {
		if row.Shaded {
			d.fill(d.theme.RowShade)
			d.pdf.Rect(tableLeft, y-5, tableWidth, 10, "F")
		}

		d.black()
		d.font("", 9)
		d.text(18, y, row.Description)

		d.fill(row.LevelColor)
		d.pdf.RoundedRect(75, y-4, 15, 6, 1, "1234", "F")
		d.white()
		d.font("B", 8)
		d.textCenter(82.5, y, row.Level)

		d.black()
		d.font("", 9)
		if row.Month != "" {
			d.text(100, y, row.Month)
		}
		if row.Batch != "" {
			d.text(125, y, row.Batch)
		}

		d.font("B", 9)
		d.textRight(amountRight, y, row.Amount)
		y += rowStep
	}

	d.pdf.SetDrawColor(d.theme.Rule.Ints())
	d.pdf.Line(tableLeft, y-3, tableLeft+tableWidth, y-3)
	return y
}

// totals draws TOTAL, Payable Now and, when due, Remaining Amount
func (d *pdfDrawer) totals(t printing.TotalsView, y float64) float64 {
	y += 10
	d.fill(d.theme.Brand)
	d.pdf.Rect(140, y-6, 55, 10, "F")
	d.white()
	d.font("B", 12)
	d.text(totalsLabelX, y, "TOTAL:")
	d.font("B", 14)
	d.textRight(amountRight, y, t.Total)

	y += 12
	d.black()
	d.font("B", 11)
	d.text(totalsLabelX, y, "Payable Now:")
	d.color(d.theme.Payable)
	d.textRight(amountRight, y, t.PayableNow)

	if t.ShowRemaining {
		y += 8
		d.black()
		d.font("", 11)
		d.text(totalsLabelX, y, "Remaining Amount:")
		d.color(d.theme.Remaining)
		d.textRight(amountRight, y, t.Remaining)
	}
	return y
}

// piece is a run of a word drawn in one style
type piece struct {
	text string
	bold bool
}

// tokenize splits segments into words. A word may span segments, as in
// "attendance." where only "attendance" is emphasized.
func tokenize(segs []printing.TextSegment) [][]piece {
	var words [][]piece
	var cur []piece
	var buf strings.Builder
	bold := false

	flushPiece := func() {
		if buf.Len() > 0 {
			cur = append(cur, piece{text: buf.String(), bold: bold})
			buf.Reset()
		}
	}
	flushWord := func() {
		flushPiece()
		if len(cur) > 0 {
			words = append(words, cur)
			cur = nil
		}
	}

	for _, s := range segs {
		flushPiece()
		bold = s.Emphasized
		for _, r := range s.Text {
			if unicode.IsSpace(r) {
				flushWord()
				continue
			}
			buf.WriteRune(r)
		}
	}
	flushWord()
	return words
}

func (d *pdfDrawer) wordWidth(w []piece) float64 {
	total := 0.0
	for _, p := range w {
		if p.bold {
			d.font("B", 8)
		} else {
			d.font("", 8)
		}
		total += d.width(p.text)
	}
	return total
}

// layoutPolicy greedily fills lines of notesWidth
func (d *pdfDrawer) layoutPolicy(segs []printing.TextSegment) [][][]piece {
	d.font("", 8)
	space := d.width(" ")

	var lines [][][]piece
	var line [][]piece
	lineWidth := 0.0
	for _, w := range tokenize(segs) {
		ww := d.wordWidth(w)
		if len(line) > 0 && lineWidth+space+ww > notesWidth {
			lines = append(lines, line)
			line, lineWidth = nil, 0
		}
		if len(line) > 0 {
			lineWidth += space
		}
		line = append(line, w)
		lineWidth += ww
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// policy draws the terms block. Lines that would start below the vertical
// budget are dropped; the document never flows to a second page.
func (d *pdfDrawer) policy(p printing.PolicyView, y float64) {
	d.black()
	y += 15
	d.font("B", 10)
	d.text(notesLeft, y, p.Heading)

	y += 6
	lines := d.layoutPolicy(p.Segments)
	d.font("", 8)
	space := d.width(" ")
	for _, line := range lines {
		if y > notesBottomLimit {
			break
		}
		x := notesLeft
		for _, w := range line {
			for _, pc := range w {
				if pc.bold {
					d.font("B", 8)
				} else {
					d.font("", 8)
				}
				d.text(x, y, pc.text)
				x += d.width(pc.text)
			}
			x += space
		}
		y += notesLineHeight
	}
}

func (d *pdfDrawer) payment(pm printing.PaymentView) {
	d.black()
	d.font("B", 8)
	d.textCenter(pageWidth/2, paymentY,
		"Bank Transfer: "+pm.AccountName+"  |  A/C No: "+pm.AccountNumber+"  |  IFSC: "+pm.IFSC)
	d.textCenter(pageWidth/2, paymentY+5, "UPI: "+pm.UPI)
}

func (d *pdfDrawer) footer(f printing.FooterView) {
	d.fill(d.theme.Brand)
	d.pdf.Rect(0, footerTop, pageWidth, footerHeight, "F")

	d.white()
	d.font("B", 10)
	d.textCenter(pageWidth/2, footerTop+7, f.Name)
	d.font("", 8)
	d.textCenter(pageWidth/2, footerTop+13, f.Address)
	d.textCenter(pageWidth/2, footerTop+19, f.TaxLine)
	d.textCenter(pageWidth/2, footerTop+25, f.Contact)
}

// Ensure VectorRenderer implements Renderer
var _ Renderer = (*VectorRenderer)(nil)
