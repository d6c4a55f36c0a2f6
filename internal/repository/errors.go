package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"comicshare/internal/apperr"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqRaiseException      = "P0001"
)

// constraintMessages are the client-facing texts for unique constraints.
var constraintMessages = map[string]string{
	"users_email_key":                 "email is already registered",
	"comics_slug_key":                 "slug is already taken",
	"user_comics_slug_key":            "slug is already taken",
	"genres_name_key":                 "genre already exists",
	"genres_slug_key":                 "genre already exists",
	"chapters_comic_number_key":       "chapter number already exists",
	"bookmark_folders_user_name_key":  "a folder with this name already exists",
	"bookmarks_user_comic_folder_key": "comic is already bookmarked in this folder",
}

// translate maps driver errors onto apperr categories. notFound is the message
// used when the statement matched no row.
func translate(err error, action, notFound string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.ErrNotFound, notFound, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			msg, ok := constraintMessages[pqErr.Constraint]
			if !ok {
				msg = "record already exists"
			}
			return apperr.Wrap(apperr.ErrConflict, msg, err)
		case pqForeignKeyViolation:
			return apperr.Wrap(apperr.ErrNotFound, "referenced record does not exist", err)
		case pqCheckViolation:
			return apperr.Wrap(apperr.ErrValidation, "value is not allowed", err)
		case pqRaiseException:
			if strings.Contains(pqErr.Message, "bookmark_folder_limit_exceeded") {
				return apperr.Wrap(apperr.ErrLimitExceeded, "bookmark folder limit reached", err)
			}
		}
	}

	return fmt.Errorf("%s: %w", action, err)
}

// expectRows turns a zero-row UPDATE/DELETE into a not-found error.
func expectRows(res sql.Result, action, notFound string) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: checking affected rows: %w", action, err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound(notFound)
	}
	return nil
}
