// Package source loads source files into normalized UTF-8, remembers the
// original encoding so writes can restore it, and provides line-indexed
// access for the formatting drivers.
package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies how the file was stored on disk.
type Encoding uint8

const (
	EncUTF8 Encoding = iota
	EncUTF8BOM
	EncUTF16LE
	EncUTF16BE
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// File is one loaded source file. Content is always BOM-free UTF-8 with the
// original line endings intact.
type File struct {
	Path     string
	Content  []byte
	Encoding Encoding
	Hash     [sha256.Size]byte

	lineIdx []uint32 // byte offsets of every '\n' in Content
}

// Load reads the file at path and normalizes it. UTF-16 input (detected by
// BOM) is transcoded; a UTF-8 BOM is stripped. Anything else is taken as-is.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, data)
}

// New builds a File from raw bytes, for stdin and tests.
func New(path string, data []byte) (*File, error) {
	enc := detectEncoding(data)
	content, err := decode(data, enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &File{
		Path:     path,
		Content:  content,
		Encoding: enc,
		Hash:     sha256.Sum256(content),
		lineIdx:  buildLineIndex(content),
	}, nil
}

// Encode converts UTF-8 text back to the file's on-disk encoding, restoring
// the BOM where one was present.
func (f *File) Encode(text []byte) ([]byte, error) {
	switch f.Encoding {
	case EncUTF8:
		return text, nil
	case EncUTF8BOM:
		out := make([]byte, 0, len(bomUTF8)+len(text))
		out = append(out, bomUTF8...)
		return append(out, text...), nil
	case EncUTF16LE:
		enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
		return enc.Bytes(text)
	case EncUTF16BE:
		enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
		return enc.Bytes(text)
	}
	return text, nil
}

// LineCount returns the number of lines, counting a final line without a
// trailing newline.
func (f *File) LineCount() int {
	if len(f.Content) == 0 {
		return 0
	}
	n := len(f.lineIdx)
	if n == 0 || int(f.lineIdx[n-1]) != len(f.Content)-1 {
		// content after the last newline forms a final unterminated line
		n++
	}
	return n
}

// Line returns the zero-based line without its terminator, or "" when out of
// range.
func (f *File) Line(i int) string {
	if i < 0 {
		return ""
	}
	start := 0
	if i > 0 {
		if i-1 >= len(f.lineIdx) {
			return ""
		}
		start = int(f.lineIdx[i-1]) + 1
	}
	end := len(f.Content)
	if i < len(f.lineIdx) {
		end = int(f.lineIdx[i])
	}
	if start > end {
		return ""
	}
	return string(bytes.TrimSuffix(f.Content[start:end], []byte("\r")))
}

func detectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncUTF8BOM
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncUTF16BE
	}
	return EncUTF8
}

func decode(data []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case EncUTF8:
		return data, nil
	case EncUTF8BOM:
		return bytes.TrimPrefix(data, bomUTF8), nil
	case EncUTF16LE:
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		return dec.Bytes(data)
	case EncUTF16BE:
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		return dec.Bytes(data)
	}
	return data, nil
}

func buildLineIndex(content []byte) []uint32 {
	var idx []uint32
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("line offset overflow: %w", err))
			}
			idx = append(idx, off)
		}
	}
	return idx
}
