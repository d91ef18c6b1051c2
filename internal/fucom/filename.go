package fucom

import (
	"strings"
	"time"
)

const (
	FileNamePrefix = "FUCOM-"
	FileExtension  = ".xlsx"
)

const extendedLetters = "ğüşöçıİĞÜŞÖÇ"

// SanitizeName keeps only basic Latin letters and the Turkish extended letters.
// Whitespace, digits and symbols are dropped.
func SanitizeName(fullName string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		case strings.ContainsRune(extendedLetters, r):
			return r
		default:
			return -1
		}
	}, fullName)
}

// FileName derives the spreadsheet name from the respondent's full name.
// Names that sanitize to the same string collide.
func FileName(fullName string) string {
	return FileNamePrefix + SanitizeName(fullName) + FileExtension
}

// TimestampedFileName appends the UTC submission time to avoid collisions.
func TimestampedFileName(fullName string, at time.Time) string {
	return FileNamePrefix + SanitizeName(fullName) + "-" + at.UTC().Format("20060102150405") + FileExtension
}
