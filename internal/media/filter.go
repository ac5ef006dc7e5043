package media

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/internal/mega"
)

// Kind buckets a file into the Telegram send method used for it.
type Kind int

const (
	KindDocument Kind = iota
	KindPhoto
	KindVideo
)

// Icon is the caption prefix for the kind.
func (k Kind) Icon() string {
	switch k {
	case KindPhoto:
		return "📸"
	case KindVideo:
		return "🎥"
	default:
		return "📄"
	}
}

// mediaExtensions is the fixed allow-list of transferable suffixes.
var mediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tiff": true,
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".webm": true, ".flv": true, ".wmv": true, ".m4v": true,
}

// The Go builtin MIME table lacks most video types and consults
// platform-specific files otherwise; register the allow-list explicitly so
// classification does not depend on the host system.
func init() {
	for ext, typ := range map[string]string{
		".bmp":  "image/bmp",
		".tiff": "image/tiff",
		".mp4":  "video/mp4",
		".avi":  "video/x-msvideo",
		".mov":  "video/quicktime",
		".mkv":  "video/x-matroska",
		".webm": "video/webm",
		".flv":  "video/x-flv",
		".wmv":  "video/x-ms-wmv",
		".m4v":  "video/x-m4v",
	} {
		mime.AddExtensionType(ext, typ)
	}
}

// Filter keeps the records whose display name ends with a recognized
// image/video extension, case-insensitively. Records without a usable name
// are skipped, not errors. Pure and idempotent; non-media records never
// reach the transfer pipeline.
func Filter(records []mega.FileRecord) []mega.FileRecord {
	var media []mega.FileRecord
	for _, rec := range records {
		name, ok := rec.Name()
		if !ok {
			continue
		}
		if mediaExtensions[strings.ToLower(filepath.Ext(name))] {
			media = append(media, rec)
		}
	}
	return media
}

// KindOf classifies by the MIME type reconstructed from the filename
// extension alone; file bytes are never inspected.
func KindOf(filename string) Kind {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return KindPhoto
	case strings.HasPrefix(mimeType, "video/"):
		return KindVideo
	default:
		return KindDocument
	}
}
