package persist

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDF writes the drawing as a single-page PDF sized to the image, one pixel
// per point. Either Path or Dir must be set; Dir uses the download naming.
type PDF struct {
	Path   string
	Dir    string
	Prefix string
}

func (p PDF) Target(e Export) string {
	if p.Path != "" {
		return p.Path
	}
	dir := p.Dir
	if dir == "" {
		dir = DownloadDir()
	}
	return filepath.Join(dir, DefaultName(p.Prefix, e, ".pdf"))
}

func (p PDF) Save(e Export) error {
	data, err := RenderPDF(e)
	if err != nil {
		return err
	}
	return writeFile(p.Target(e), data)
}

// RenderPDF returns the PDF bytes for e.
func RenderPDF(e Export) ([]byte, error) {
	if e.Image == nil || len(e.PNG) == 0 {
		return nil, fmt.Errorf("pdf: empty image")
	}
	w := float64(e.Image.Bounds().Dx())
	h := float64(e.Image.Bounds().Dy())
	// Portrait keeps Size as given; "L" would swap width and height.
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("doodlepad", true)
	if e.Session != "" {
		doc.SetSubject("session "+e.Session, true)
	}
	doc.AddPage()
	name := "drawing-" + strings.ReplaceAll(e.Session, "-", "")
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(e.PNG))
	doc.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	return buf.Bytes(), nil
}
