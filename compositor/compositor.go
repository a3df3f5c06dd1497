// Package compositor draws the page chrome of ledger reports: the letterhead
// background, the header block and the footer, on every page.
package compositor

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/asset"
)

// Chrome is the static content repeated on every page.
type Chrome struct {
	Title          string
	Footer         string // may contain {page} and {pages}
	LetterheadPath string // optional full-bleed background image
	GeneratedAt    time.Time

	TitleFont   cargodoc.FontSpec
	StampFont   cargodoc.FontSpec // "Generated: ..." line
	FooterFont  cargodoc.FontSpec
	FooterColor cargodoc.RGBColor
}

// DefaultChrome returns the chrome of the client summary report.
func DefaultChrome() Chrome {
	return Chrome{
		Title:       "Client Summary",
		Footer:      "CARGOBLOC LOGISTICS - Vision to Reality",
		TitleFont:   cargodoc.FontSpec{Family: "Helvetica", Style: "B", Size: 16},
		StampFont:   cargodoc.FontSpec{Family: "Helvetica", Size: 10},
		FooterFont:  cargodoc.FontSpec{Family: "Helvetica", Style: "I", Size: 9},
		FooterColor: cargodoc.Gray(64),
	}
}

// GeneratedLayout is the time layout of the header's generation stamp.
const GeneratedLayout = "02 Jan 2006, 03:04 PM"

const pagesAlias = "{nb}"

// Compositor begins pages and draws their chrome. It belongs to one render.
type Compositor struct {
	canvas *cargodoc.Canvas
	geom   cargodoc.PageGeometry
	chrome Chrome
	logger *zap.Logger

	bgName   string
	bgLoaded bool
	pages    int
	warnings []error
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithLogger sets the logger used to report degraded rendering.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compositor) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a compositor drawing on canvas. Zero fonts in chrome fall back
// to DefaultChrome's.
func New(canvas *cargodoc.Canvas, geom cargodoc.PageGeometry, chrome Chrome, opts ...Option) *Compositor {
	def := DefaultChrome()
	if chrome.TitleFont.Family == "" {
		chrome.TitleFont = def.TitleFont
	}
	if chrome.StampFont.Family == "" {
		chrome.StampFont = def.StampFont
	}
	if chrome.FooterFont.Family == "" {
		chrome.FooterFont = def.FooterFont
		chrome.FooterColor = def.FooterColor
	}
	c := &Compositor{
		canvas: canvas,
		geom:   geom,
		chrome: chrome,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if strings.Contains(chrome.Footer, "{pages}") {
		canvas.PDF().AliasNbPages(pagesAlias)
	}
	return c
}

// BeginPage adds a page and draws its background, header and footer. A
// letterhead that is missing or unreadable is logged and recorded in
// Warnings; the page is drawn without it.
func (c *Compositor) BeginPage() error {
	pdf := c.canvas.PDF()
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: c.geom.Width, Ht: c.geom.Height})
	c.pages++

	if name := c.background(); name != "" {
		c.canvas.Image(name, 0, 0, c.geom.Width, c.geom.Height)
	}
	c.drawHeader()
	c.drawFooter()
	c.canvas.Reset()

	if err := c.canvas.Err(); err != nil {
		return cargodoc.NewError("BeginPage", "", cargodoc.ErrRenderFailure, err)
	}
	return nil
}

// background loads and registers the letterhead on first use and returns
// its image name, or "" when there is none to draw.
func (c *Compositor) background() string {
	if c.bgLoaded {
		return c.bgName
	}
	c.bgLoaded = true
	path := c.chrome.LetterheadPath
	if path == "" {
		return ""
	}
	img, err := asset.Load(path)
	if err == nil {
		c.bgName, err = img.Register(c.canvas.PDF())
	}
	if err != nil {
		c.logger.Warn("letterhead unavailable, rendering without background",
			zap.String("path", path), zap.Error(err))
		c.warnings = append(c.warnings, err)
		c.bgName = ""
	}
	return c.bgName
}

func (c *Compositor) drawHeader() {
	top := c.geom.ContentTop()
	c.canvas.SetTextColor(cargodoc.RGBColor{})
	if c.chrome.Title != "" {
		c.canvas.SetFont(c.chrome.TitleFont)
		c.canvas.Text(c.geom.TableLeft(), top+c.geom.TitleOffset, c.chrome.Title)
	}
	if !c.chrome.GeneratedAt.IsZero() {
		c.canvas.SetFont(c.chrome.StampFont)
		c.canvas.TextRight(c.geom.TableRight(), top+c.geom.TitleOffset+4,
			"Generated: "+c.chrome.GeneratedAt.Format(GeneratedLayout))
	}
}

func (c *Compositor) drawFooter() {
	if c.chrome.Footer == "" {
		return
	}
	text := strings.ReplaceAll(c.chrome.Footer, "{page}", fmt.Sprintf("%d", c.pages))
	text = strings.ReplaceAll(text, "{pages}", pagesAlias)
	c.canvas.SetFont(c.chrome.FooterFont)
	c.canvas.SetTextColor(c.chrome.FooterColor)
	c.canvas.TextCentered(c.geom.Width/2, c.geom.FooterY, text)
}

// ContentTop returns the y at which table content starts on a fresh page.
func (c *Compositor) ContentTop() float64 {
	return c.geom.ContentTop()
}

// RemainingHeight returns the vertical space left between cursorY and the
// bottom margin. It is negative once the cursor is inside the margin.
func (c *Compositor) RemainingHeight(cursorY float64) float64 {
	return cursorY - c.geom.BottomMargin
}

// PageNo returns the number of pages begun so far.
func (c *Compositor) PageNo() int {
	return c.pages
}

// Warnings returns the non-fatal problems met while drawing. A letterhead
// that cannot be loaded wraps cargodoc.ErrAssetMissing; one the document
// could not take wraps cargodoc.ErrRenderFailure.
func (c *Compositor) Warnings() []error {
	return c.warnings
}
