package infinidash

import (
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// Wire types for the Infinidash JSON API. Field names follow the service's
// CamelCase convention; result shaping to snake_case happens at the
// reporting layer.

type DashSummary struct {
	DashId      string            `json:"DashId,omitempty"`
	DashArn     string            `json:"DashArn,omitempty"`
	DashName    string            `json:"DashName,omitempty"`
	DashStatus  string            `json:"DashStatus,omitempty"`
	CreatedTime string            `json:"CreatedTime,omitempty"`
	DashConfig  map[string]any    `json:"DashConfig,omitempty"`
	Tags        map[string]string `json:"Tags,omitempty"`
}

type DescribeDashesInput struct {
	DashIds   []string `json:"DashIds,omitempty"`
	DashNames []string `json:"DashNames,omitempty"`
}

type DescribeDashesOutput struct {
	Dashes []DashSummary `json:"Dashes"`
}

type CreateDashInput struct {
	DashName   string            `json:"DashName"`
	DashConfig map[string]any    `json:"DashConfig,omitempty"`
	Tags       map[string]string `json:"Tags,omitempty"`
}

type CreateDashOutput struct {
	Dash DashSummary `json:"Dash"`
}

type DeleteDashInput struct {
	DashId string `json:"DashId"`
}

type DeleteDashOutput struct{}

type TagDashInput struct {
	DashId string            `json:"DashId"`
	Tags   map[string]string `json:"Tags"`
}

type TagDashOutput struct{}

type UntagDashInput struct {
	DashId  string   `json:"DashId"`
	TagKeys []string `json:"TagKeys"`
}

type UntagDashOutput struct{}

// Error codes returned by the service.
const (
	ErrCodeDashNotFound      = "DashNotFoundException"
	ErrCodeDashAlreadyExists = "DashAlreadyExistsException"
	ErrCodeThrottling        = "ThrottlingException"
	ErrCodeAccessDenied      = "AccessDeniedException"
	ErrCodeValidation        = "ValidationException"
	ErrCodeInternalFailure   = "InternalFailureException"
)

// APIError is the service's JSON error payload. It implements
// smithy.APIError so callers can translate it the same way they would an
// error from a generated AWS SDK client.
type APIError struct {
	Type    string `json:"__type"`
	Message string `json:"message"`

	StatusCode int `json:"-"`
}

var _ smithy.APIError = (*APIError)(nil)

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode(), e.Message)
}

// ErrorCode strips the namespace prefix some AWS JSON protocols include,
// e.g. "com.amazonaws.dash#DashNotFoundException".
func (e *APIError) ErrorCode() string {
	if idx := strings.LastIndexByte(e.Type, '#'); idx >= 0 {
		return e.Type[idx+1:]
	}
	return e.Type
}

func (e *APIError) ErrorMessage() string {
	return e.Message
}

func (e *APIError) ErrorFault() smithy.ErrorFault {
	switch {
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return smithy.FaultClient
	case e.StatusCode >= 500:
		return smithy.FaultServer
	default:
		return smithy.FaultUnknown
	}
}
