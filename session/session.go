// Package session persists the login session and constructs
// authenticated XRPC clients from it. The session file is the only
// durable state this tool keeps.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	comatproto "github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/util"
	"github.com/bluesky-social/indigo/xrpc"

	"github.com/adrg/xdg"
)

// DefaultPDS is used when the session file carries no pds_url.
const DefaultPDS = "https://bsky.social"

const fileRelPath = "skycli/session.json"

var ErrNotLoggedIn = errors.New("not logged in")

// Session mirrors the session file layout. The token is the opaque
// refresh JWT issued by the PDS.
type Session struct {
	Handle       string `json:"handle"`
	RefreshToken string `json:"session"`
	PDS          string `json:"pds_url,omitempty"`
}

// Path returns the session file location, creating parent directories.
func Path() (string, error) {
	return xdg.ConfigFile(fileRelPath)
}

// Load reads the session file. Returns ErrNotLoggedIn when the file is
// missing or holds no token.
func Load() (*Session, error) {
	fPath, err := xdg.SearchConfigFile(fileRelPath)
	if err != nil {
		return nil, ErrNotLoggedIn
	}
	b, err := os.ReadFile(fPath)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", fPath, err)
	}
	if s.RefreshToken == "" {
		return nil, ErrNotLoggedIn
	}
	if s.PDS == "" {
		s.PDS = DefaultPDS
	}
	return &s, nil
}

// Save rewrites the whole session file. No locking: concurrent
// invocations race and the last writer wins.
func Save(s *Session) error {
	fPath, err := xdg.ConfigFile(fileRelPath)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fPath, b, 0600)
}

// Clear removes the session file. A missing file is not an error.
func Clear() error {
	fPath, err := xdg.SearchConfigFile(fileRelPath)
	if err != nil {
		return nil
	}
	return os.Remove(fPath)
}

// Login creates a fresh session against the PDS, persists it, and
// returns it with a ready-to-use authenticated client.
func Login(ctx context.Context, pdsURL, handle, password string) (*Session, *xrpc.Client, error) {
	if pdsURL == "" {
		pdsURL = DefaultPDS
	}
	client := &xrpc.Client{
		Client: util.RobustHTTPClient(),
		Host:   pdsURL,
	}
	out, err := comatproto.ServerCreateSession(ctx, client, &comatproto.ServerCreateSession_Input{
		Identifier: handle,
		Password:   password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}

	s := &Session{Handle: out.Handle, RefreshToken: out.RefreshJwt, PDS: pdsURL}
	if err := Save(s); err != nil {
		return nil, nil, err
	}

	client.Auth = &xrpc.AuthInfo{
		AccessJwt:  out.AccessJwt,
		RefreshJwt: out.RefreshJwt,
		Did:        out.Did,
		Handle:     out.Handle,
	}
	return s, client, nil
}

// Client refreshes the stored session and returns an authenticated
// XRPC client. Refresh tokens rotate, so the new token is persisted
// before returning.
func (s *Session) Client(ctx context.Context) (*xrpc.Client, error) {
	client := &xrpc.Client{
		Client: util.RobustHTTPClient(),
		Host:   s.PDS,
		Auth: &xrpc.AuthInfo{
			Handle: s.Handle,
			// refreshSession authenticates with the refresh token in
			// the access slot
			AccessJwt:  s.RefreshToken,
			RefreshJwt: s.RefreshToken,
		},
	}
	resp, err := comatproto.ServerRefreshSession(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("session refresh failed, try 'skycli login' again: %w", err)
	}
	client.Auth.AccessJwt = resp.AccessJwt
	client.Auth.RefreshJwt = resp.RefreshJwt
	client.Auth.Did = resp.Did
	client.Auth.Handle = resp.Handle

	s.RefreshToken = resp.RefreshJwt
	if err := Save(s); err != nil {
		// The command can still run with the in-memory session.
		slog.Warn("could not persist refreshed session", "err", err)
	}
	return client, nil
}
