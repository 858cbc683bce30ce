// Package epubio handles the EPUB container itself: ZIP unpack/repack and
// OPF/NCX metadata mutation, the collaborators spec.md §2 calls out as
// implemented but out of the core A-G component scope. Grounded on
// other_examples' narado-bhikkhu-ebook-gen main.go archive/zip usage;
// archive/zip itself is stdlib because no third-party ZIP library appears
// anywhere in the example pack.
package epubio

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
)

// MimetypeName is the one entry EPUB requires to be stored first and
// without compression.
const MimetypeName = "mimetype"

// Unzip extracts every entry of the EPUB at srcPath into destDir,
// preserving relative paths, and returns the entry names in archive
// order so Rezip can reproduce the same layout later.
func Unzip(srcPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(srcPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)

		targetPath := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return nil, err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return nil, err
		}
		if err := extractEntry(f, targetPath); err != nil {
			return nil, err
		}
	}

	return names, nil
}

func extractEntry(f *zip.File, targetPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// Rezip archives the files under srcDir named by names into a new EPUB at
// destPath, writing "mimetype" first and uncompressed as EPUB requires.
func Rezip(srcDir string, names []string, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := zip.NewWriter(out)
	defer w.Close()

	ordered := orderWithMimetypeFirst(names)

	for _, name := range ordered {
		path := filepath.Join(srcDir, filepath.FromSlash(name))
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			continue
		}

		method := zip.Deflate
		if name == MimetypeName {
			method = zip.Store
		}

		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = name
		hdr.Method = method

		writer, err := w.CreateHeader(hdr)
		if err != nil {
			return err
		}

		in, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(writer, in)
		in.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func orderWithMimetypeFirst(names []string) []string {
	ordered := make([]string, 0, len(names))
	hasMimetype := false
	for _, n := range names {
		if n == MimetypeName {
			hasMimetype = true
			continue
		}
		ordered = append(ordered, n)
	}
	if hasMimetype {
		ordered = append([]string{MimetypeName}, ordered...)
	}
	return ordered
}
