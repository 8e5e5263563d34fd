package domain

import (
	"errors"
	"fmt"
	"regexp"
)

const MediaIDLen = 11

var ErrInvalidMediaID = errors.New("invalid media id")

var mediaIDPattern = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9_-]{%d}$`, MediaIDLen))

// MediaID identifies a single video, e.g. "dQw4w9WgXcQ".
type MediaID string

func ParseMediaID(raw string) (MediaID, error) {
	if !mediaIDPattern.MatchString(raw) {
		return "", ErrInvalidMediaID
	}
	return MediaID(raw), nil
}
