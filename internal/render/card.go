package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/youruser/speakerpack/internal/event"
)

// EventContext is the read-only event banner shared by every card in a
// batch: title, a pre-formatted date, and the venue.
type EventContext struct {
	Title         string
	FormattedDate string
	Venue         string
}

// Card geometry. All coordinates are design constants; titles that wrap
// onto many lines grow downward and may reach into the QR region, which
// the design accepts.
const (
	cardSize      = 1080
	headerHeight  = 200
	titleMaxWidth = 900
	titleStartY   = 450
	titleLineStep = 50
	qrSize        = 200
	qrX           = 440
	qrY           = 700

	eventTitleY   = 80
	eventInfoY    = 130
	speakerNameY  = 300
	speakerTitleY = 350
	captionY      = 940
	footerY       = 1000
)

var (
	cardBackground = color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	brandAccent    = color.NRGBA{R: 0x3f, G: 0x51, B: 0xb5, A: 0xff}
	inkPrimary     = color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
	inkMuted       = color.NRGBA{R: 0x75, G: 0x75, B: 0x75, A: 0xff}
	inkWhite       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// CardComposer draws finished 1080x1080 speaker cards.
type CardComposer struct {
	baseURL string
	brand   string
	caption string
	faces   *faceSet
}

// NewCardComposer builds a composer whose QR codes link under baseURL
// and whose footer carries the brand name.
func NewCardComposer(baseURL, brand string) (*CardComposer, error) {
	fs, err := loadFaces()
	if err != nil {
		return nil, err
	}
	return &CardComposer{
		baseURL: baseURL,
		brand:   brand,
		caption: "Scan to view talk details",
		faces:   fs,
	}, nil
}

// TalkURL is the canonical link a card's code encodes. Clients scanning
// the code depend on the /talks/{id} path staying stable.
func (c *CardComposer) TalkURL(talkID string) string {
	return c.baseURL + "/talks/" + talkID
}

// Compose draws one speaker card. The layout is deterministic: the same
// talk, speaker and event always produce byte-identical pixels.
func (c *CardComposer) Compose(talk event.Talk, speaker event.Speaker, ev EventContext) (image.Image, error) {
	canvas := imaging.New(cardSize, cardSize, cardBackground)
	canvas = imaging.Paste(canvas, imaging.New(cardSize, headerHeight, brandAccent), image.Pt(0, 0))

	drawCentered(canvas, ev.Title, c.faces.bold40, inkWhite, eventTitleY)
	drawCentered(canvas, ev.FormattedDate+" | "+ev.Venue, c.faces.regular30, inkWhite, eventInfoY)

	drawCentered(canvas, speaker.Name, c.faces.bold60, inkPrimary, speakerNameY)
	if speaker.Title != "" {
		drawCentered(canvas, speaker.Title, c.faces.regular30, inkMuted, speakerTitleY)
	}

	y := titleStartY
	for _, line := range WrapText(talk.Title, titleMaxWidth, faceMeasure(c.faces.bold40)) {
		drawCentered(canvas, line, c.faces.bold40, brandAccent, y)
		y += titleLineStep
	}

	code, err := GenerateQR(c.TalkURL(talk.ID), DefaultQROptions())
	if err != nil {
		return nil, err
	}
	code = imaging.Resize(code, qrSize, qrSize, imaging.NearestNeighbor)
	canvas = imaging.Paste(canvas, code, image.Pt(qrX, qrY))

	drawCentered(canvas, c.caption, c.faces.regular24, inkMuted, captionY)
	drawCentered(canvas, c.brand, c.faces.bold24, brandAccent, footerY)
	return canvas, nil
}

// drawCentered draws text horizontally centered with its baseline at y.
func drawCentered(dst *image.NRGBA, text string, face font.Face, col color.Color, y int) {
	width := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P((cardSize-width)/2, y),
	}
	d.DrawString(text)
}
