package core

// importfile.go reads uploaded price files into text the CSV codec accepts.
//
// Spreadsheet tools on Windows commonly save CSV with a UTF-8 byte order mark
// or in the Windows-1252 code page. The BOM is dropped, and a file that is
// not valid UTF-8 is decoded as Windows-1252 so accented product names
// survive the round trip.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	ErrNoFile         = errors.New("no file provided")
	ErrNotCSV         = errors.New("file must be a .csv file")
	ErrEmptyFile      = errors.New("empty file")
	ErrFileTooLarge   = errors.New("file too large")
	ErrUnreadableFile = errors.New("unreadable file")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CheckImportFileName rejects anything but a .csv file name.
func CheckImportFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoFile
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("%w: %s", ErrNotCSV, filepath.Base(name))
	}
	return nil
}

// ReadImportFile reads at most limit bytes from r. It fails with
// ErrFileTooLarge when more are available and ErrEmptyFile when none are.
func ReadImportFile(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, limit)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}

// DecodeImportText converts raw file bytes to text.
func DecodeImportText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return string(decoded), nil
}
