// Package server provides the HTTP REST API for the job agent.
package server

import (
	"fmt"
	"net/http"
)

// ErrInvalidCredentials indicates a failed password login
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid password"
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnknownPlatform indicates a platform name outside the supported set
type ErrUnknownPlatform struct {
	Name string
}

func (e *ErrUnknownPlatform) Error() string {
	return fmt.Sprintf("unknown platform: %s", e.Name)
}

// ErrScanInProgress indicates a discovery run is already active
type ErrScanInProgress struct{}

func (e *ErrScanInProgress) Error() string {
	return "a scan is already in progress"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrValidation, *ErrUnknownPlatform:
		return http.StatusBadRequest
	case *ErrScanInProgress:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
