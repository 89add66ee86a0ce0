// Package archive assembles the staging directory into a single zip at
// maximum compression.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"

	"github.com/youruser/speakerpack/internal/apperr"
)

// Build zips every regular file directly within stagingDir into a new
// archive at outPath, placing entries at the archive root. The writer
// is flushed and closed before the size is read, so the returned byte
// count matches the file on disk.
func Build(stagingDir, outPath string) (int64, error) {
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		return 0, apperr.E(apperr.KindIO, "reading staging directory", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return 0, apperr.E(apperr.KindIO, "creating archive file", err)
	}

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := addFile(zw, filepath.Join(stagingDir, entry.Name()), entry.Name()); err != nil {
			zw.Close()
			out.Close()
			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return 0, apperr.E(apperr.KindIO, "finalizing archive", err)
	}
	if err := out.Close(); err != nil {
		return 0, apperr.E(apperr.KindIO, "closing archive file", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return 0, apperr.E(apperr.KindIO, "sizing archive file", err)
	}
	return info.Size(), nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperr.E(apperr.KindIO, "opening staged image", err)
	}
	defer f.Close()

	w, err := zw.Create(name)
	if err != nil {
		return apperr.E(apperr.KindIO, "adding archive entry", err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return apperr.E(apperr.KindIO, "compressing archive entry", err)
	}
	return nil
}
