// CLAUDE:SUMMARY Reads the content stream of OpenDocument packages (zip → content.xml) and flat XML files, size-bounded.
package docpipe

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hazyhaar/pkg/horosafe"
)

const odfMimePrefix = "application/vnd.oasis.opendocument."

var (
	errNotODF    = errors.New("not an OpenDocument package")
	errNoContent = errors.New("content.xml not found in archive")
)

// readContent returns the content.xml bytes of the document at path,
// reading at most maxBytes of decompressed data.
func readContent(path string, format Format, maxBytes int64) ([]byte, error) {
	if format.flat() {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return horosafe.LimitedReadAll(f, maxBytes)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()
	data, _, err := contentFromZip(&r.Reader, maxBytes)
	return data, err
}

// readContentBytes is readContent for an in-memory upload. Zip packages
// are recognised by their magic number and typed by their mimetype entry,
// anything else is taken as a bare content.xml.
func readContentBytes(data []byte, maxBytes int64) ([]byte, Format, error) {
	if !bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return data, FormatXML, nil
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errNotODF, err)
	}
	content, mime, err := contentFromZip(zr, maxBytes)
	if err != nil {
		return nil, "", err
	}
	return content, formatFromMimetype(mime), nil
}

// formatFromMimetype maps a package mimetype to its Format. Packages with
// no mimetype entry or a kind without a Format of its own count as text.
func formatFromMimetype(mime string) Format {
	switch strings.TrimPrefix(mime, odfMimePrefix) {
	case "text-template":
		return FormatOTT
	case "spreadsheet":
		return FormatODS
	case "spreadsheet-template":
		return FormatOTS
	case "presentation":
		return FormatODP
	default:
		return FormatODT
	}
}

// contentFromZip returns the content.xml bytes and the validated mimetype,
// empty when the package has none.
func contentFromZip(zr *zip.Reader, maxBytes int64) ([]byte, string, error) {
	var contentFile, mimeFile *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case "content.xml":
			contentFile = f
		case "mimetype":
			mimeFile = f
		}
	}
	var mime string
	if mimeFile != nil {
		var err error
		if mime, err = checkMimetype(mimeFile); err != nil {
			return nil, "", err
		}
	}
	if contentFile == nil {
		return nil, "", errNoContent
	}

	rc, err := contentFile.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open content.xml: %w", err)
	}
	defer rc.Close()
	data, err := horosafe.LimitedReadAll(rc, maxBytes)
	if err != nil {
		return nil, "", fmt.Errorf("read content.xml: %w", err)
	}
	return data, mime, nil
}

func checkMimetype(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open mimetype: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, 256))
	if err != nil {
		return "", fmt.Errorf("read mimetype: %w", err)
	}
	mime := strings.TrimSpace(string(data))
	if !strings.HasPrefix(mime, odfMimePrefix) {
		return "", fmt.Errorf("%w: mimetype %q", errNotODF, mime)
	}
	return mime, nil
}
