package errorcode

import "fmt"

const (
	// CodeBadRequest means the backend understood the request but rejected its parameters (400, 422).
	CodeBadRequest = "~BADREQUEST~"
	// CodeUnauthorized means the backend refused the bearer token (401) and no refresh was possible or allowed.
	CodeUnauthorized = "~UNAUTHORIZED~"
	// CodeForbidden means the parameters were understood but the caller has no permission for the operation (403).
	CodeForbidden = "~FORBIDDEN~"
	// CodeNotFound means the resource does not exist (404).
	CodeNotFound = "~NOTFOUND~"
	// CodeConflict means the resource is in a state that does not allow the operation (409).
	CodeConflict = "~CONFLICT~"
	// CodeNotImplemented means the backend does not offer the operation (501).
	CodeNotImplemented = "~NOTIMPLEMENTED~"
	// CodeBackendUnavailable means the backend could not be reached or failed internally (5xx).
	CodeBackendUnavailable = "~BACKENDUNAVAILABLE~"
	// CodeSessionExpired means the refresh token was rejected and the session has been cleared.
	CodeSessionExpired = "~SESSIONEXPIRED~"
)

// ErrorBadRequest is the error instance using `CodeBadRequest`.
var ErrorBadRequest = fmt.Errorf(CodeBadRequest)

// ErrorUnauthorized is the error instance using `CodeUnauthorized`.
var ErrorUnauthorized = fmt.Errorf(CodeUnauthorized)

// ErrorForbidden is the error instance using `CodeForbidden`.
var ErrorForbidden = fmt.Errorf(CodeForbidden)

// ErrorNotFound is the error instance using `CodeNotFound`.
var ErrorNotFound = fmt.Errorf(CodeNotFound)

// ErrorConflict is the error instance using `CodeConflict`.
var ErrorConflict = fmt.Errorf(CodeConflict)

// ErrorNotImplemented is the error instance using `CodeNotImplemented`.
var ErrorNotImplemented = fmt.Errorf(CodeNotImplemented)

// ErrorBackendUnavailable is the error instance using `CodeBackendUnavailable`.
var ErrorBackendUnavailable = fmt.Errorf(CodeBackendUnavailable)

// ErrorSessionExpired is the error instance using `CodeSessionExpired`.
var ErrorSessionExpired = fmt.Errorf(CodeSessionExpired)
