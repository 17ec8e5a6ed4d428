package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// ErrInvalidOrderQuantity represents an order with a non-positive quantity.
	ErrInvalidOrderQuantity ErrorCode = "invalid_order_quantity"
	// ErrInvalidOrderPrice represents an order with a non-positive price.
	ErrInvalidOrderPrice ErrorCode = "invalid_order_price"

	// ErrSnapshotUnavailable represents a snapshot request that could not be served.
	ErrSnapshotUnavailable ErrorCode = "snapshot_unavailable"
	// ErrPublishTrade represents a failure to publish executed trades.
	ErrPublishTrade ErrorCode = "publish_trade_error"
)

// Error is a code-carrying error used across the service.
type Error struct {
	Code    ErrorCode
	Message string
}

// New creates an Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target carries the same error code.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}
