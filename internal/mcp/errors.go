package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/spgallery/internal/catalog"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps catalog errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, catalog.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "call get_projects for valid slugs"}
	case errors.Is(err, catalog.ErrAssetRoot):
		return &APIError{Code: "CATALOG_UNAVAILABLE", Message: "asset root could not be read"}
	case errors.Is(err, catalog.ErrSnapshot):
		return &APIError{Code: "CATALOG_UNAVAILABLE", Message: "catalog snapshot is invalid"}
	default:
		return nil
	}
}

func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
