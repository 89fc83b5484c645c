package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"oss.terrastruct.com/util-go/xdefer"

	"github.com/loopcanvas/loopcanvas/diagram"
	"github.com/loopcanvas/loopcanvas/pngrender"
	"github.com/loopcanvas/loopcanvas/svgrender"
)

// ExportFile writes the diagram to path in the format named by its
// extension (.json, .svg or .png). The bytes are produced in full before
// anything touches the filesystem, so a rasterization failure leaves no
// partial file behind.
func ExportFile(path string, d *diagram.Diagram, background string) (err error) {
	defer xdefer.Errorf(&err, "failed to export %q", path)

	var data []byte
	switch ext := filepath.Ext(path); ext {
	case ".json":
		data, err = d.Bytes()
	case ".svg":
		data = svgrender.Export(d, background)
	case ".png":
		data, err = pngrender.Export(d, background)
	default:
		return fmt.Errorf("unsupported export format %q", ext)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
