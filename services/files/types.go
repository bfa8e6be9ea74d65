package files

import (
	"bytes"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var allowedTypes = map[string]bool{
	"application/pdf": true,
	"application/zip": true,
	"text/plain":      true,
	"text/csv":        true,
	"text/markdown":   true,
	"video/mp4":       true,
	"application/msword":       true,
	"application/vnd.ms-excel": true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

// Allowed reports whether a content type may be shared. Raster images are accepted; SVG can carry script.
func Allowed(contentType string) bool {
	base, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if base == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(base, "image/") || allowedTypes[base]
}

// sniff detects the content type from the leading bytes and returns a reader that
// still yields the whole stream.
func sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	head = head[:n]
	detected := mimetype.Detect(head)

	ct := detected.String()
	// Markdown and CSV sniff as plain text; trust the extension for those.
	if detected.Is("text/plain") {
		ct = "text/plain"
	}
	return ct, io.MultiReader(bytes.NewReader(head), r), nil
}

var extensionTypes = map[string]string{
	".csv":  "text/csv",
	".md":   "text/markdown",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// refine prefers the extension's type when the bytes are only recognised as generic text or zip.
func refine(sniffed, name string) string {
	base, ok := extensionTypes[strings.ToLower(extension(name))]
	if !ok {
		return sniffed
	}
	switch {
	case sniffed == "text/plain" && (base == "text/csv" || base == "text/markdown"):
		return base
	case sniffed == "application/zip" && strings.HasPrefix(base, "application/vnd.openxmlformats-officedocument."):
		return base
	}
	return sniffed
}

func extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
