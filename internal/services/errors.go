// Package services holds the use cases shared by the HTTP API and the CLI:
// analyzing files and datasets, batch runs, forecasts, and predictions.
package services

import (
	"errors"
	"io/fs"

	"github.com/soltixdb/trendlens/internal/models"
)

// Error codes
const (
	CodeDatasetNotFound     = "DATASET_NOT_FOUND"
	CodeInvalidDataset      = "INVALID_DATASET"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeEntityNotFound      = "ENTITY_NOT_FOUND"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodePredictionFailed    = "PREDICTION_FAILED"
	CodeOutputFailed        = "OUTPUT_FAILED"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// wrapError keeps err reachable through errors.Is/As
func wrapError(code string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: err.Error(), Err: err}
}

// datasetError classifies a load failure
func datasetError(err error) *ServiceError {
	if errors.Is(err, fs.ErrNotExist) {
		return wrapError(CodeDatasetNotFound, err)
	}
	var dae *models.DataAccessError
	if errors.As(err, &dae) && dae.Op == "read" {
		return wrapError(CodeDatasetNotFound, err)
	}
	return wrapError(CodeInvalidDataset, err)
}
