package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind はユーザーに見せるエラーの分類。
type ErrorKind string

const (
	KindValidationFailed ErrorKind = "ValidationFailed"
	KindFetchFailed      ErrorKind = "FetchFailed"
	KindSubmitInFlight   ErrorKind = "SubmitInFlight"
	KindNotFound         ErrorKind = "NotFound"
	KindConflict         ErrorKind = "Conflict"
	KindInternal         ErrorKind = "Internal"
)

type HTTPError struct {
	Status  int
	Message string
	Kind    ErrorKind
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Kind:    kindForStatus(status),
	}
}

// ValidationFailed は入力不正（400）。
func ValidationFailed(message string) error {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Kind: KindValidationFailed}
}

// FetchFailed は外部サービス呼び出しの失敗（502）。
func FetchFailed(message string, cause error) error {
	return &HTTPError{Status: http.StatusBadGateway, Message: message, Kind: KindFetchFailed, Err: cause}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// IsKind は err が指定の分類か
func IsKind(err error, kind ErrorKind) bool {
	he, ok := AsHTTPError(err)
	return ok && he.Kind == kind
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindValidationFailed
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadGateway:
		return KindFetchFailed
	default:
		return KindInternal
	}
}
