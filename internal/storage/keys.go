package storage

import (
	"fmt"
	"strings"

	"comicshare/internal/apperr"
)

// Object key layout of the bucket.

func CoverKey(comicID string) string {
	return fmt.Sprintf("covers/%s.jpg", comicID)
}

func ChapterPageKey(chapterID, pageID string) string {
	return fmt.Sprintf("chapters/%s/%s.jpg", chapterID, pageID)
}

func UserCoverKey(userID, comicID string) string {
	return fmt.Sprintf("user-comics/%s/covers/%s.jpg", userID, comicID)
}

func UserPageKey(userID, comicID string, page int) string {
	return fmt.Sprintf("user-comics/%s/pages/%s/%03d.jpg", userID, comicID, page)
}

func UserPagesPrefix(userID, comicID string) string {
	return fmt.Sprintf("user-comics/%s/pages/%s/", userID, comicID)
}

func AvatarKey(userID string) string {
	return fmt.Sprintf("avatars/%s.jpg", userID)
}

// AdsPrefix returns the folder holding ad creatives for a placement. The
// position must be a single path segment.
func AdsPrefix(position string) (string, error) {
	if position == "" || strings.ContainsAny(position, "/\\") || position == "." || position == ".." {
		return "", apperr.Validation(fmt.Sprintf("invalid ad position %q", position))
	}
	return fmt.Sprintf("ads/%s/", position), nil
}

// UserPrefix holds every object uploaded by a user's comics.
func UserPrefix(userID string) string {
	return fmt.Sprintf("user-comics/%s/", userID)
}
