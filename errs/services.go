package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// External Service Errors
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnsupportedMedia   = errors.New("unsupported media type")
	ErrMaxBodySize        = errors.New("max body size exceeded")
)

func NewServiceUnavailableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("%s is not available", service),
		Cause:      cause,
	}
}

func NewUnsupportedMediaError(contentType string, allowed []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedMedia,
		Details:    fmt.Sprintf("Unsupported media type: %s. Allowed types: %v", contentType, allowed),
		Field:      "image",
	}
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrMaxBodySize,
		Details:    fmt.Sprintf("Request body size exceeded maximum allowed size of %d bytes", maxSize),
		Field:      "image",
	}
}
