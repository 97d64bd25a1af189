// Package service contains the workflows behind the API endpoints:
// the upload commit sequence, the gallery and map read paths, the
// visibility toggle and the ordered delete
package service

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// Extensions treated as playable video. Classification is done on the
// extension only, never by sniffing content
var videoExts = []string{"mp4", "mov", "avi", "mkv", "webm", "m4v"}

// Extensions treated as static images. Anything outside both lists is
// neither and renders as a plain file
var imageExts = []string{"jpg", "png", "webp", "gif"}

type MediaKind string

const (
	KindImage   MediaKind = "image"
	KindVideo   MediaKind = "video"
	KindUnknown MediaKind = ""
)

// NormalizeExt derives the lowercased extension of a file name. Names
// without an extension fall back to jpg, and the four-letter jpeg
// spelling collapses to jpg so classification and content types never
// diverge for the same format
func NormalizeExt(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		return "jpg"
	}

	if ext == "jpeg" {
		return "jpg"
	}

	return ext
}

// Classify maps a normalized extension to a media kind
func Classify(ext string) MediaKind {
	if slices.Contains(videoExts, ext) {
		return KindVideo
	}

	if slices.Contains(imageExts, ext) {
		return KindImage
	}

	return KindUnknown
}

// KindOf classifies a full object key or file name
func KindOf(name string) MediaKind {
	return Classify(NormalizeExt(name))
}

// ContentType maps a normalized extension to its MIME type. The mov
// container is the one video format whose subtype doesn't match its
// extension, and jpg maps back to the full jpeg subtype
func ContentType(ext string) string {
	if slices.Contains(videoExts, ext) {
		if ext == "mov" {
			return "video/quicktime"
		}

		return "video/" + ext
	}

	if ext == "jpg" {
		return "image/jpeg"
	}

	return "image/" + ext
}

// ObjectKey builds the storage key for a new upload. The owner prefix
// gives prefix-scoped access control on the bucket, the millisecond
// timestamp keeps keys from colliding across uploads
func ObjectKey(userID string, unixMillis int64, ext string) string {
	return fmt.Sprintf("%s/%d.%s", userID, unixMillis, ext)
}
