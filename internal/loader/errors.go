// Package loader implements the staged asset loading pipeline: download,
// parse, validate, process, optimize, and cache insertion.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/lumina3d/avatarcore/internal/transport"
	"github.com/lumina3d/avatarcore/pkg/avm"
)

// Kind classifies a loading failure.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindParsing    Kind = "parsing"
	KindValidation Kind = "validation"
	KindMemory     Kind = "memory"
	KindGPU        Kind = "gpu"
	KindUnknown    Kind = "unknown"
)

// ErrOutOfMemory is reported by allocation-sensitive stages when a model is
// too large to process. Loads failing with it become retryable after cache
// eviction frees memory.
var ErrOutOfMemory = errors.New("out of memory")

// ErrGPU is reported by the render host when device or context creation
// fails; such failures are not recoverable by retrying the load.
var ErrGPU = errors.New("gpu context failure")

// LoadError is a classified loading failure with recovery guidance.
type LoadError struct {
	Kind        Kind
	Code        string
	Message     string
	Status      int // HTTP-like status when applicable, else 0
	Suggestions []string
	Retryable   bool
	Err         error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s [%s, status %d]: %s", e.Kind, e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Classify wraps an arbitrary failure into a LoadError with the right kind,
// retryability, and recovery suggestions. A LoadError passes through as is.
func Classify(err error) *LoadError {
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}

	switch {
	case isNetworkError(err):
		status := 0
		var se *transport.StatusError
		if errors.As(err, &se) {
			status = se.Status
		}
		return &LoadError{
			Kind:      KindNetwork,
			Code:      "NETWORK_FAILURE",
			Message:   err.Error(),
			Status:    status,
			Retryable: true,
			Suggestions: []string{
				"check the network connection",
				"verify the asset URL is reachable",
				"retry the load",
			},
			Err: err,
		}
	case isParsingError(err):
		return &LoadError{
			Kind:      KindParsing,
			Code:      "PARSE_FAILURE",
			Message:   err.Error(),
			Retryable: false,
			Suggestions: []string{
				"verify the asset is a valid AVM file",
				"re-export the asset from the authoring tool",
			},
			Err: err,
		}
	case errors.Is(err, ErrOutOfMemory):
		return &LoadError{
			Kind:      KindMemory,
			Code:      "OUT_OF_MEMORY",
			Message:   err.Error(),
			Retryable: true,
			Suggestions: []string{
				"clear the model cache and retry",
				"load a lower-detail version of the asset",
			},
			Err: err,
		}
	case errors.Is(err, ErrGPU):
		return &LoadError{
			Kind:      KindGPU,
			Code:      "GPU_FAILURE",
			Message:   err.Error(),
			Retryable: false,
			Suggestions: []string{
				"update the graphics driver",
				"restart the application",
			},
			Err: err,
		}
	default:
		return &LoadError{
			Kind:      KindUnknown,
			Code:      "UNKNOWN",
			Message:   err.Error(),
			Retryable: false,
			Suggestions: []string{
				"check the application logs for details",
			},
			Err: err,
		}
	}
}

// newValidationError builds the non-retryable structural failure returned
// when an asset is missing required content.
func newValidationError(msg string) *LoadError {
	return &LoadError{
		Kind:      KindValidation,
		Code:      "VALIDATION_FAILURE",
		Message:   msg,
		Retryable: false,
		Suggestions: []string{
			"supply an asset containing the required skeleton and morph targets",
			"check the asset export settings",
		},
	}
}

func isNetworkError(err error) bool {
	var se *transport.StatusError
	if errors.As(err, &se) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isParsingError(err error) bool {
	return errors.Is(err, avm.ErrInvalidMagic) ||
		errors.Is(err, avm.ErrUnsupportedVersion) ||
		errors.Is(err, avm.ErrTruncatedData) ||
		errors.Is(err, avm.ErrInvalidCount)
}
