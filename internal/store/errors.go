package store

import (
	"errors"

	"bookcatalog/internal/apperr"

	"gorm.io/gorm"
)

var (
	errUserNotFound   = apperr.NotFound("user not found")
	errAuthorNotFound = apperr.NotFound("author not found")
	errBookNotFound   = apperr.NotFound("book not found")
	errDuplicateEmail = apperr.New(apperr.KindDuplicateEmail, "email already exists")
)

// translate maps gorm errors onto API failure kinds.
func translate(err error, notFound *apperr.Error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errDuplicateEmail
	default:
		return apperr.Upstream(err)
	}
}
