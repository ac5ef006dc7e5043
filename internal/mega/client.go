package mega

import (
	"context"
	"crypto/cipher"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/EshanAdithaya/telegram-bot-mega-downloarder/pkg/logger"
)

// Node types in the account listing.
const (
	nodeTypeFile   = 0
	nodeTypeFolder = 1
	nodeTypeRoot   = 2
)

// Client opens anonymous sessions against the MEGA API.
type Client struct {
	apiURL string
}

func NewClient(apiURL string) *Client {
	return &Client{apiURL: apiURL}
}

// Session is one logged-in ephemeral MEGA session. It is created once per
// relay run and reused for every listing, import, and download in it.
type Session struct {
	api       *apiClient
	masterKey []byte
	rootID    string
}

// LoginAnonymous registers a throwaway ephemeral account ("up") and opens
// a temporary session on it ("us"). No user credentials are involved.
func (c *Client) LoginAnonymous(ctx context.Context) (*Session, error) {
	api := newAPIClient(c.apiURL)

	masterKey := randomBytes(16)
	passwordKey := randomBytes(16)
	challenge := randomBytes(16)

	wrappedMaster, err := blockEncrypt(passwordKey, masterKey)
	if err != nil {
		return nil, fmt.Errorf("wrap master key: %w", err)
	}
	sealedChallenge, err := blockEncrypt(masterKey, challenge)
	if err != nil {
		return nil, fmt.Errorf("seal challenge: %w", err)
	}

	var handle string
	err = api.request(ctx, map[string]any{
		"a":  "up",
		"k":  b64Encode(wrappedMaster),
		"ts": b64Encode(append(append([]byte{}, challenge...), sealedChallenge...)),
	}, &handle)
	if err != nil {
		return nil, fmt.Errorf("create ephemeral account: %w", err)
	}

	var login struct {
		TSID string `json:"tsid"`
	}
	if err := api.request(ctx, map[string]any{"a": "us", "user": handle}, &login); err != nil {
		return nil, fmt.Errorf("ephemeral login: %w", err)
	}
	if login.TSID == "" {
		return nil, fmt.Errorf("ephemeral login returned no session id")
	}
	api.sid = login.TSID

	logger.Info("MEGA session opened", "user", handle)
	return &Session{api: api, masterKey: masterKey}, nil
}

// Files retrieves the full account listing in provider order. Records
// whose key or attribute blob cannot be decrypted are kept with nil Attrs
// rather than dropped, so callers can pattern-match on the incomplete
// variant.
func (s *Session) Files(ctx context.Context) ([]FileRecord, error) {
	var listing struct {
		Nodes []struct {
			Handle string `json:"h"`
			Parent string `json:"p"`
			Type   int    `json:"t"`
			Attrs  string `json:"a"`
			Key    string `json:"k"`
			Size   int64  `json:"s"`
		} `json:"f"`
	}
	if err := s.api.request(ctx, map[string]any{"a": "f", "c": 1, "r": 1}, &listing); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	records := make([]FileRecord, 0, len(listing.Nodes))
	for _, n := range listing.Nodes {
		switch n.Type {
		case nodeTypeRoot:
			s.rootID = n.Handle
			continue
		case nodeTypeFile:
		default:
			continue
		}

		rec := FileRecord{ID: n.Handle, ParentID: n.Parent, Size: n.Size}
		if key, err := s.decryptNodeKey(n.Key); err == nil {
			rec.key = key
			if blob, err := b64Decode(n.Attrs); err == nil {
				if attrs, err := decryptAttributes(unmergeKey(key), blob); err == nil {
					rec.Attrs = attrs
				}
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// decryptNodeKey unwraps an "<owner>:<wrapped>" key field with the
// session's master key.
func (s *Session) decryptNodeKey(field string) ([]byte, error) {
	_, wrapped, ok := strings.Cut(field, ":")
	if !ok {
		return nil, fmt.Errorf("node key missing owner prefix")
	}
	raw, err := b64Decode(wrapped)
	if err != nil {
		return nil, fmt.Errorf("decode node key: %w", err)
	}
	return blockDecrypt(s.masterKey, raw)
}

// ImportPublicURL copies the folder a public link points at into this
// session's own listing ("p" command, key re-wrapped under the master
// key). The copy does not preserve the public folder's scoping, which is
// why the resolver treats the re-listed records permissively afterwards.
// Mutates remote account state for the lifetime of the ephemeral session.
func (s *Session) ImportPublicURL(ctx context.Context, raw string) error {
	link, err := ParseFolderLink(raw)
	if err != nil {
		return err
	}

	if s.rootID == "" {
		if _, err := s.Files(ctx); err != nil {
			return err
		}
		if s.rootID == "" {
			return fmt.Errorf("cloud root not present in listing")
		}
	}

	key, err := b64Decode(link.Key)
	if err != nil {
		return fmt.Errorf("decode folder key: %w", err)
	}
	wrapped, err := blockEncrypt(s.masterKey, key)
	if err != nil {
		return fmt.Errorf("wrap folder key: %w", err)
	}
	attrs, err := encryptAttributes(unmergeKey(key), Attributes{Name: link.Token})
	if err != nil {
		return fmt.Errorf("seal folder attributes: %w", err)
	}

	cmd := map[string]any{
		"a": "p",
		"t": s.rootID,
		"n": []map[string]any{{
			"ph": link.Token,
			"t":  nodeTypeFolder,
			"a":  b64Encode(attrs),
			"k":  b64Encode(wrapped),
		}},
	}
	if err := s.api.request(ctx, cmd, nil); err != nil {
		return fmt.Errorf("import public folder: %w", err)
	}
	return nil
}

// Download fetches one file into dir, decrypting the content stream, and
// returns the local path. The scratch file is named after the record's
// display name, falling back to the record id.
func (s *Session) Download(ctx context.Context, rec FileRecord, dir string) (string, error) {
	if len(rec.key) < 32 {
		return "", fmt.Errorf("record %s has no usable key", rec.ID)
	}

	var info struct {
		URL  string `json:"g"`
		Size int64  `json:"s"`
	}
	if err := s.api.request(ctx, map[string]any{"a": "g", "g": 1, "n": rec.ID}, &info); err != nil {
		return "", fmt.Errorf("request download url: %w", err)
	}
	if info.URL == "" {
		return "", fmt.Errorf("no download url for %s", rec.ID)
	}

	stream, err := contentCipher(rec.key)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", info.URL, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}
	resp, err := s.api.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	name, ok := rec.Name()
	if !ok {
		name = rec.ID
	}
	path := filepath.Join(dir, filepath.Base(name))

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(out, cipher.StreamReader{S: stream, R: resp.Body})
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
