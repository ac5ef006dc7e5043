package mega

// FolderLink is a validated shared-folder link with the token pair parsed
// out of its #F!token!key fragment.
type FolderLink struct {
	Raw   string
	Token string
	Key   string
}

// Attributes is the decoded attribute blob of a listing entry.
type Attributes struct {
	Name string `json:"n"`
}

// FileRecord is one file entry in the account listing. A record whose
// attribute blob could not be decrypted or decoded carries a nil Attrs;
// such records stay in the listing but are skipped by the media filter.
type FileRecord struct {
	ID       string
	ParentID string
	Size     int64
	Attrs    *Attributes

	// key is the decrypted 32-byte node key, required for download.
	key []byte
}

// Name returns the display name, reporting false when the record is
// incomplete.
func (r FileRecord) Name() (string, bool) {
	if r.Attrs == nil || r.Attrs.Name == "" {
		return "", false
	}
	return r.Attrs.Name, true
}
