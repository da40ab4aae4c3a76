package controller

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/prismaasset360/web/internal/apiclient"
)

// GeneralResponse is the body of the JSON endpoints when they fail.
type GeneralResponse struct {
	Msg    string             `json:"msg"`
	Errors ParameterErrorList `json:"errors,omitempty"`
	Code   string             `json:"code,omitempty"` // The errorcode of the failure, e.g. "~SESSIONEXPIRED~"
}

// NewGeneralResponseFromError describes a failed backend call. The backend's message is used if it sent one.
func NewGeneralResponseFromError(err error, fallback string) *GeneralResponse {
	resp := &GeneralResponse{Msg: apiclient.UserMessage(err, fallback)}
	if cause := errors.Cause(err); cause != nil && strings.HasPrefix(cause.Error(), "~") {
		resp.Code = cause.Error()
	}

	return resp
}

// NewGeneralResponseFromErrors describes rejected parameters.
func NewGeneralResponseFromErrors(msg string, pel ParameterErrorList) *GeneralResponse {
	return &GeneralResponse{Msg: msg, Errors: pel}
}
