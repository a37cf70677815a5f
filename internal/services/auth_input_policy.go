package services

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxProfileNameLength    = 64
	maxProfilePictureLength = 512
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrAuthUsernameInvalid    = errors.New("auth username invalid")
	ErrProfileNameTooLong     = errors.New("profile name too long")
	ErrProfilePictureInvalid  = errors.New("profile picture invalid")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

func NormalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if !usernamePattern.MatchString(username) {
		return "", ErrAuthUsernameInvalid
	}
	return username, nil
}

func NormalizeProfileName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) > maxProfileNameLength {
		return "", ErrProfileNameTooLong
	}
	return name, nil
}

// NormalizeProfilePicture accepts an empty value or an http(s) URL.
func NormalizeProfilePicture(raw string) (string, error) {
	picture := strings.TrimSpace(raw)
	if picture == "" {
		return "", nil
	}
	if len(picture) > maxProfilePictureLength {
		return "", ErrProfilePictureInvalid
	}
	lower := strings.ToLower(picture)
	if !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://") {
		return "", ErrProfilePictureInvalid
	}
	return picture, nil
}
