package mega

import (
	"context"
	"errors"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/pkg/logger"
)

// ErrFolderUnavailable means neither listing strategy produced any files:
// the folder is empty, private, or could not be imported. Reported to the
// user, never retried.
var ErrFolderUnavailable = errors.New("no files found in the folder or folder is private")

// SessionAPI is the slice of a Session the resolver needs. Tests
// substitute a fake.
type SessionAPI interface {
	Files(ctx context.Context) ([]FileRecord, error)
	ImportPublicURL(ctx context.Context, raw string) error
}

// StatusFunc receives coarse progress notes for the status message.
type StatusFunc func(text string)

// ResolveFolder produces the records belonging to the folder a link points
// at. The account listing is filtered by parent id first; if that yields
// nothing the public folder is imported into the session and the listing
// is taken again, this time keeping every record with a decoded attribute
// blob. The import path cannot recover the original folder scoping, so it
// may pick up unrelated imports living in the same session; that
// best-effort approximation is kept as-is.
func ResolveFolder(ctx context.Context, sess SessionAPI, link FolderLink, status StatusFunc) ([]FileRecord, error) {
	if status == nil {
		status = func(string) {}
	}

	status("📋 Getting folder contents...")
	all, err := sess.Files(ctx)
	if err != nil {
		return nil, err
	}

	var matched []FileRecord
	for _, rec := range all {
		if rec.Attrs != nil && rec.ParentID == link.Token {
			matched = append(matched, rec)
		}
	}

	if len(matched) == 0 {
		status("📂 Importing folder...")
		if err := sess.ImportPublicURL(ctx, link.Raw); err != nil {
			logger.Warn("Public folder import failed", "error", err)
			return nil, ErrFolderUnavailable
		}

		all, err = sess.Files(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range all {
			if rec.Attrs != nil {
				matched = append(matched, rec)
			}
		}
	}

	if len(matched) == 0 {
		return nil, ErrFolderUnavailable
	}
	return matched, nil
}
