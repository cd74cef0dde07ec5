// Package rpcstatus maps domain errors to gRPC status codes, both for whole calls
// and for the in-band per-item errors carried on streamed responses.
package rpcstatus

import (
	"context"
	"errors"

	commonv1 "github.com/syntrixbase/crm/api/common/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error classes. Domain packages wrap these in their own sentinels so that the
// transport layer can pick a code without importing every domain package.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnavailable     = errors.New("unavailable")
	ErrNotFound        = errors.New("not found")
)

// Code returns the gRPC code for err.
func Code(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}

	switch {
	case errors.Is(err, ErrInvalidArgument):
		return codes.InvalidArgument
	case errors.Is(err, ErrUnauthenticated):
		return codes.Unauthenticated
	case errors.Is(err, ErrUnavailable):
		return codes.Unavailable
	case errors.Is(err, ErrNotFound):
		return codes.NotFound
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	}
	return codes.Internal
}

// ToStatus converts a domain error into a gRPC status error.
// Errors that already carry a status are returned unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(Code(err), err.Error())
}

// ItemError converts err into the in-band error of a streamed response.
func ItemError(err error) *commonv1.ItemError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if st, ok := status.FromError(err); ok {
		msg = st.Message()
	}
	return &commonv1.ItemError{
		Code:    int32(Code(err)),
		Message: msg,
	}
}

// FromItemError converts an in-band error back into a status error.
func FromItemError(e *commonv1.ItemError) error {
	if e == nil {
		return nil
	}
	code := codes.Code(e.GetCode())
	if code == codes.OK {
		code = codes.Unknown
	}
	return status.Error(code, e.GetMessage())
}
