package volunteer

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by Manager.
const (
	TextCodeNotFound        = "NOT_FOUND"
	TextCodeDuplicateKey    = "DUPLICATE_KEY"
	TextCodeInvalidArgument = "INVALID_ARGUMENT"
	TextCodeStoreFailure    = "STORE_FAILURE"
)

func notFoundError(format string, args ...any) error {
	return goerrors.New(fmt.Sprintf(format, args...), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(TextCodeNotFound)
}

func duplicateEmailError(email string) error {
	return goerrors.New("volunteer: email already registered", goerrors.CategoryValidation).
		WithCode(http.StatusConflict).
		WithTextCode(TextCodeDuplicateKey).
		WithMetadata(map[string]any{"email": email})
}

func invalidArgumentError(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "volunteer: invalid argument").
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(TextCodeInvalidArgument)
}

func storeFailure(err error, op string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "volunteer: store "+op+" failed").
		WithCode(goerrors.CodeInternal).
		WithTextCode(TextCodeStoreFailure)
}

// IsNotFound reports whether err means the requested volunteer does not exist.
func IsNotFound(err error) bool { return hasTextCode(err, TextCodeNotFound) }

// IsDuplicateKey reports whether err is an email collision.
func IsDuplicateKey(err error) bool { return hasTextCode(err, TextCodeDuplicateKey) }

// IsInvalidArgument reports whether err is a rejected input.
func IsInvalidArgument(err error) bool { return hasTextCode(err, TextCodeInvalidArgument) }

// IsStoreFailure reports whether err came from the backing store.
func IsStoreFailure(err error) bool { return hasTextCode(err, TextCodeStoreFailure) }

func hasTextCode(err error, code string) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}
