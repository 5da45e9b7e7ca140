package render

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/longplay45/swissgrid/pkg/errors"
)

const converterTool = "rsvg-convert"

const converterHint = "Install librsvg:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale
// factor. Scale of 2.0 produces a 2x resolution image.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(converterTool); err != nil {
		return nil, &errors.MissingToolError{Tool: converterTool, Hint: converterHint}
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command(converterTool, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "rsvg-convert to %s: %s", format, errBuf.String())
	}
	return out.Bytes(), nil
}
