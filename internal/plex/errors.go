package plex

import (
	"fmt"
	"net/http"
)

// UploadErrorKind classifies a failed logo upload.
type UploadErrorKind int

const (
	// UploadBadRequest covers malformed requests: bad file, unsupported
	// image format, or a payload the server rejects.
	UploadBadRequest UploadErrorKind = iota
	// UploadUnsupported means the item does not accept logo artwork.
	UploadUnsupported
	// UploadTransport covers network and other unclassified failures.
	UploadTransport
)

// String returns the log label for the classification.
func (k UploadErrorKind) String() string {
	switch k {
	case UploadBadRequest:
		return "bad_request"
	case UploadUnsupported:
		return "unsupported"
	default:
		return "transport"
	}
}

// UploadError is a classified logo-upload failure.
type UploadError struct {
	Kind      UploadErrorKind
	RatingKey string
	Err       error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload logo for item %s (%s): %v", e.RatingKey, e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func classifyStatus(statusCode int) UploadErrorKind {
	switch statusCode {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return UploadUnsupported
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return UploadBadRequest
	default:
		return UploadTransport
	}
}
