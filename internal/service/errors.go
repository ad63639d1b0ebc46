package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/extraction"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/selection"
	"github.com/mmynk/billsplit/internal/settlement"
	"github.com/mmynk/billsplit/internal/storage"
)

var (
	errNotMember   = errors.New("you are not a member of this group")
	errNotOwner    = errors.New("only the group owner can add members")
	errCannotClear = errors.New("only the uploader or the group owner can clear the bill")
)

// toConnectError maps domain errors onto Connect codes. Errors that are
// already *connect.Error pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, selection.ErrQuantityLimitExceeded),
		errors.Is(err, selection.ErrMinimumQuantityReached),
		errors.Is(err, selection.ErrAlreadyZero):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, selection.ErrUnknownItem),
		errors.Is(err, extraction.ErrUnsupportedImage):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, selection.ErrNoBill),
		errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrBillExists),
		errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, extraction.ErrExtractionFailed):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, errNotMember),
		errors.Is(err, errNotOwner),
		errors.Is(err, errCannotClear),
		errors.Is(err, settlement.ErrNotMember):
		return connect.NewError(connect.CodePermissionDenied, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// rejectionReason labels a selection rule violation for metrics, or returns
// "" when err is not one.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, selection.ErrQuantityLimitExceeded):
		return "quantity_limit_exceeded"
	case errors.Is(err, selection.ErrMinimumQuantityReached):
		return "minimum_quantity_reached"
	case errors.Is(err, selection.ErrAlreadyZero):
		return "already_zero"
	case errors.Is(err, selection.ErrUnknownItem):
		return "unknown_item"
	}
	return ""
}

func recordRejection(err error, attrs ...any) {
	reason := rejectionReason(err)
	if reason == "" {
		return
	}
	metrics.SelectionRejections.WithLabelValues(reason).Inc()
	slog.Info("Selection rejected", append(attrs, "reason", reason, "error", err)...)
}
