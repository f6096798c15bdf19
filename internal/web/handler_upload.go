package web

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vbonduro/atelier/internal/content"
)

const (
	maxImageSize  = 20 << 20 // 20 MB per file
	maxUploadSize = 64 << 20 // whole multipart body
)

// allowedImageTypes is the set of MIME types accepted for uploaded images.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the stdlib sniffer has no
// WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mimeType := http.DetectContentType(data)
	if allowedImageTypes[mimeType] {
		return mimeType, true
	}
	return "", false
}

// readInput parses a create or update request for schema: multipart or
// url-encoded form values, the files of each image slot and the optional
// version field.
func (s *Server) readInput(w http.ResponseWriter, r *http.Request, schema *content.Schema) (content.Input, error) {
	in := content.Input{Files: map[string][]content.Upload{}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxImageSize); err != nil {
			return in, &content.ValidationError{Message: "failed to parse form"}
		}
		in.Values = url.Values(r.MultipartForm.Value)
		for _, slot := range schema.Images {
			for _, fh := range r.MultipartForm.File[slot.Form] {
				up, ok, err := s.readUpload(fh)
				if err != nil {
					return in, err
				}
				if ok {
					in.Files[slot.Form] = append(in.Files[slot.Form], up)
				}
			}
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return in, &content.ValidationError{Message: "failed to parse form"}
		}
		in.Values = r.PostForm
	}

	if v := strings.TrimSpace(in.Values.Get("version")); v != "" {
		version, err := strconv.ParseInt(v, 10, 64)
		if err != nil || version < 0 {
			return in, &content.ValidationError{Message: "Invalid version"}
		}
		in.Version = version
	}
	return in, nil
}

// readUpload reads one file part. Empty parts, as browsers send for an
// untouched file input, are skipped.
func (s *Server) readUpload(fh *multipart.FileHeader) (content.Upload, bool, error) {
	if fh.Size == 0 {
		return content.Upload{}, false, nil
	}
	if fh.Size > maxImageSize {
		return content.Upload{}, false, &content.ValidationError{Message: "image too large"}
	}
	file, err := fh.Open()
	if err != nil {
		return content.Upload{}, false, errors.New("failed to open upload")
	}
	defer closeWithLog(file, "upload file", s.logger)

	data, err := io.ReadAll(file)
	if err != nil {
		return content.Upload{}, false, errors.New("failed to read upload")
	}
	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return content.Upload{}, false, &content.ValidationError{Message: "unsupported image format"}
	}
	return content.Upload{Filename: fh.Filename, ContentType: mimeType, Data: data}, true, nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
