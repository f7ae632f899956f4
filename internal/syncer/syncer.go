// Package syncer decides whether the artifact found online is newer
// than the stored copy and, if so, transfers it: download to a local
// staging file, upload to the remote store, remove the staging file.
// Running it repeatedly against an unchanged source is a no-op.
package syncer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	lserrors "github.com/mkwant/list-to-sheets/internal/errors"
	"github.com/mkwant/list-to-sheets/internal/listing"
	"github.com/mkwant/list-to-sheets/internal/remotestore"
)

// Action is the terminal state of a sync run.
type Action string

const (
	// ActionNone means the stored copy is at least as new as the
	// source; nothing was downloaded, uploaded or deleted.
	ActionNone Action = "no_op"

	// ActionTransfer means the source was newer and a
	// download/upload/cleanup cycle ran.
	ActionTransfer Action = "transfer"
)

// Updater runs the freshness-gated sync protocol.
type Updater struct {
	store  remotestore.Store
	fs     billy.Filesystem
	client *http.Client

	// target is the title first-ever uploads are created under; the
	// created object's filename is the title plus the source file's
	// extension. Later runs address the object by its identifier, so
	// remote renames do not break the update branch.
	target string

	log zerolog.Logger
}

// NewUpdater builds an Updater. The filesystem holds the staging file
// and is assumed to be exclusively owned by this run.
func NewUpdater(
	store remotestore.Store,
	stagingFS billy.Filesystem,
	client *http.Client,
	target string,
	log zerolog.Logger,
) *Updater {
	return &Updater{
		store:  store,
		fs:     stagingFS,
		client: client,
		target: target,
		log:    log,
	}
}

// Run compares the current item against the stored one and transfers
// when the current item is strictly newer. Equal timestamps are not
// newer, so a repeat run against an unchanged source stays a no-op. A
// nil stored item means no prior upload exists and always transfers,
// taking the create branch instead of the update branch.
//
// The returned Action is the one the run settled on; on error it names
// the step that was attempted. The staging file is removed whether the
// upload succeeds or fails; a failed download aborts before any upload,
// leaving remote state untouched.
func (u *Updater) Run(
	ctx context.Context,
	current listing.CurrentItem,
	stored *remotestore.StoredObject,
) (Action, error) {
	log := u.log.With().Str("run_id", uuid.NewString()).Str("filename", current.Filename).Logger()

	if stored != nil && !current.LastModified.After(stored.LastModified) {
		log.Info().
			Time("current", current.LastModified).
			Time("stored", stored.LastModified).
			Msg("latest list already uploaded, nothing to do")
		return ActionNone, nil
	}

	staging := current.Filename
	if err := u.download(ctx, current.URL, staging, log); err != nil {
		return ActionNone, lserrors.New("sync.download", fmt.Errorf("%w: %v", lserrors.ErrDownloadFailed, err)).
			WithSource(current.URL).
			WithName(staging)
	}
	defer func() {
		log.Debug().Str("staging", staging).Msg("removing staging file")
		if err := u.fs.Remove(staging); err != nil {
			log.Warn().Err(err).Str("staging", staging).Msg("failed to remove staging file")
		}
	}()

	if err := u.upload(ctx, staging, stored, log); err != nil {
		return ActionTransfer, lserrors.New("sync.upload", fmt.Errorf("%w: %v", lserrors.ErrUploadFailed, err)).
			WithName(staging)
	}
	return ActionTransfer, nil
}

// download fetches url into a staging file with the given name.
func (u *Updater) download(ctx context.Context, url, staging string, log zerolog.Logger) error {
	log.Debug().Str("url", url).Str("staging", staging).Msg("downloading")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	f, err := u.fs.Create(staging)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		// A truncated staging file must not survive the run.
		if rmErr := u.fs.Remove(staging); rmErr != nil {
			log.Warn().Err(rmErr).Str("staging", staging).Msg("failed to remove partial staging file")
		}
		return err
	}
	return f.Close()
}

// upload sends the staging file to the store, overwriting the stored
// object in place when one exists and creating a new object otherwise.
func (u *Updater) upload(
	ctx context.Context,
	staging string,
	stored *remotestore.StoredObject,
	log zerolog.Logger,
) error {
	f, err := u.fs.Open(staging)
	if err != nil {
		return err
	}
	defer f.Close()

	if stored != nil {
		log.Info().
			Str("id", stored.ID).
			Msgf("existing stored object found, overwriting with newer file %q", staging)
		_, err = u.store.Update(ctx, stored.ID, f)
		return err
	}

	filename := u.target + path.Ext(staging)
	log.Info().
		Str("title", u.target).
		Str("filename", filename).
		Msgf("no stored object found, creating new from %q", staging)
	_, err = u.store.Create(ctx, u.target, filename, f)
	return err
}
