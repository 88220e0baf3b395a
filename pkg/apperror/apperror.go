// Package apperror carries domain failures from usecases to the transport
// layer, where they become localized gRPC statuses.
package apperror

import (
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MsgInternal        = "internal_error"
	MsgInvalidArgument = "invalid_argument"
	MsgUnauthenticated = "unauthenticated"
	MsgSystemBusy      = "system_busy"

	errorDomain = "catalog.omnipos"
)

type Error struct {
	Code      codes.Code
	MessageID string
	Data      map[string]interface{}
	Err       error
}

func New(code codes.Code, messageID string) *Error {
	return &Error{Code: code, MessageID: messageID}
}

func NotFound(messageID string) *Error           { return New(codes.NotFound, messageID) }
func InvalidArgument(messageID string) *Error    { return New(codes.InvalidArgument, messageID) }
func AlreadyExists(messageID string) *Error      { return New(codes.AlreadyExists, messageID) }
func FailedPrecondition(messageID string) *Error { return New(codes.FailedPrecondition, messageID) }
func Unavailable(messageID string) *Error        { return New(codes.Unavailable, messageID) }

func (e *Error) Error() string {
	msg := e.MessageID
	if len(e.Data) > 0 {
		msg = fmt.Sprintf("%s %v", msg, e.Data)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on code and message id so sentinels survive WithData and Wrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.MessageID == e.MessageID
}

// WithData returns a copy of e carrying template data for the localized message.
func (e *Error) WithData(data map[string]interface{}) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// Known reports whether err is an *Error or already a gRPC status.
func Known(err error) bool {
	if _, ok := status.FromError(err); ok {
		return true
	}
	var appErr *Error
	return errors.As(err, &appErr)
}

// ToStatus maps err onto a gRPC status localized for lang. Errors that are
// not Known become codes.Internal with a generic message.
func ToStatus(tr *i18n.Translator, lang string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return status.Error(codes.Internal, tr.Localize(lang, MsgInternal, nil))
	}

	msg := tr.Localize(lang, appErr.MessageID, appErr.Data)
	st := status.New(appErr.Code, msg)

	metadata := make(map[string]string, len(appErr.Data))
	for k, v := range appErr.Data {
		metadata[k] = fmt.Sprint(v)
	}
	detailed, derr := st.WithDetails(
		&errdetails.ErrorInfo{Reason: appErr.MessageID, Domain: errorDomain, Metadata: metadata},
		&errdetails.LocalizedMessage{Locale: lang, Message: msg},
	)
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}
