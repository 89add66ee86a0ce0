package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/speakerpack/internal/apperr"
)

// QROptions are the code-generator knobs the cards rely on. Identical
// text and options always produce pixel-identical output.
type QROptions struct {
	Level         qrcode.RecoveryLevel
	DisableBorder bool
	Size          int
	Dark          color.Color
	Light         color.Color
}

// DefaultQROptions matches the card design: highest error correction,
// quiet-zone border, 200px, black on white.
func DefaultQROptions() QROptions {
	return QROptions{
		Level: qrcode.Highest,
		Size:  200,
		Dark:  color.Black,
		Light: color.White,
	}
}

// GenerateQR returns a raster code image for text. Text beyond the
// code's capacity at the requested recovery level fails with a render
// error.
func GenerateQR(text string, opt QROptions) (image.Image, error) {
	q, err := qrcode.New(text, opt.Level)
	if err != nil {
		return nil, apperr.E(apperr.KindRender, "encoding QR content", err)
	}
	q.DisableBorder = opt.DisableBorder
	if opt.Dark != nil {
		q.ForegroundColor = opt.Dark
	}
	if opt.Light != nil {
		q.BackgroundColor = opt.Light
	}
	return q.Image(opt.Size), nil
}

// GenerateQRPNG returns PNG bytes of a QR code for the given text,
// for serving directly over HTTP.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	opt := DefaultQROptions()
	opt.Size = size
	img, err := GenerateQR(text, opt)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, apperr.E(apperr.KindRender, "encoding QR PNG", err)
	}
	return buf.Bytes(), nil
}
