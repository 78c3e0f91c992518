package skills

import (
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-volunteers/volunteer"
)

func skillNotFound(name string) error {
	return goerrors.New(fmt.Sprintf("skill %q not found", name), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(volunteer.TextCodeNotFound)
}

func volunteerNotFound(id int64) error {
	return goerrors.New(fmt.Sprintf("volunteer %d not found", id), goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound).
		WithTextCode(volunteer.TextCodeNotFound)
}

func duplicateSkill(name string) error {
	return goerrors.New("skills: skill already exists", goerrors.CategoryValidation).
		WithCode(http.StatusConflict).
		WithTextCode(volunteer.TextCodeDuplicateKey).
		WithMetadata(map[string]any{"name": name})
}

func invalidInput(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "skills: invalid argument").
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(volunteer.TextCodeInvalidArgument)
}

func storeFailure(err error, op string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, "skills: store "+op+" failed").
		WithCode(goerrors.CodeInternal).
		WithTextCode(volunteer.TextCodeStoreFailure)
}
