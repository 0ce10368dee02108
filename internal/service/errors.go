package service

import "errors"

// Kind classifies a domain failure so the HTTP layer can pick a status code.
type Kind int

const (
	KindAuthentication Kind = iota + 1
	KindForbidden
	KindNotFound
	KindInvalidToken
	KindEmailDelivery
	KindFileSize
)

// Message keys carried by service errors.
const (
	MsgAuthenticationFailure     = "authentication_failure"
	MsgUnauthorizedHoaxSubmit    = "unauthorized_hoax_submit"
	MsgUnauthorizedUserUpdate    = "unauthorized_user_update"
	MsgUnauthorizedUserDelete    = "unauthorized_user_delete"
	MsgUnauthorizedPasswordReset = "unauthorized_password_reset"
	MsgUserNotFound              = "user_not_found"
	MsgEmailNotInUse             = "email_not_in_use"
	MsgAccountActivationFailure  = "account_activation_failure"
	MsgEmailFailure              = "email_failure"
	MsgAttachmentSizeLimit       = "attachment_size_limit"
)

// Error is a classified domain failure. Message is a translatable key.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func AuthenticationError(key string) *Error {
	return &Error{Kind: KindAuthentication, Message: key}
}

func ForbiddenError(key string) *Error {
	return &Error{Kind: KindForbidden, Message: key}
}

func NotFoundError(key string) *Error {
	return &Error{Kind: KindNotFound, Message: key}
}

func InvalidTokenError() *Error {
	return &Error{Kind: KindInvalidToken, Message: MsgAccountActivationFailure}
}

func EmailDeliveryError(cause error) *Error {
	return &Error{Kind: KindEmailDelivery, Message: MsgEmailFailure, Err: cause}
}

func FileSizeError() *Error {
	return &Error{Kind: KindFileSize, Message: MsgAttachmentSizeLimit}
}
