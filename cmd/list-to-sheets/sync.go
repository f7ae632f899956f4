package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	lserrors "github.com/mkwant/list-to-sheets/internal/errors"
	"github.com/mkwant/list-to-sheets/internal/listing"
	"github.com/mkwant/list-to-sheets/internal/remotestore"
	"github.com/mkwant/list-to-sheets/internal/syncer"
)

var (
	flagBucket    string
	flagFilter    string
	flagTarget    string
	flagRegion    string
	flagEndpoint  string
	flagPathStyle bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload the newest published list to the bucket when it is newer than the stored copy",
	Long: `Sync resolves the newest matching file from the directory listing at
LIST_LOCATION and compares its timestamp against the copy stored in the
bucket. Only a strictly newer file is transferred: it is downloaded to
a staging file, uploaded (overwriting the stored object in place when
one exists, creating it otherwise), and the staging file is removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.ListLocation == "" {
			return fmt.Errorf("LIST_LOCATION is not set")
		}

		var opts []remotestore.Option
		if flagRegion != "" {
			opts = append(opts, remotestore.WithRegion(flagRegion))
		}
		if flagEndpoint != "" {
			opts = append(opts, remotestore.WithEndpoint(flagEndpoint))
		}
		if flagPathStyle {
			opts = append(opts, remotestore.WithForcePathStyle(true))
		}

		// The engine never runs without a valid store handle; a
		// credential failure here is fatal before any transfer.
		store, err := remotestore.New(ctx, flagBucket, opts...)
		if err != nil {
			return err
		}

		current, err := listing.Resolve(ctx, http.DefaultClient, cfg.ListLocation, flagFilter, log)
		if err != nil {
			return err
		}

		stored, err := store.FindByTitle(ctx, flagTarget)
		if err != nil && !lserrors.IsNotFound(err) {
			return err
		}
		if stored == nil {
			log.Info().Str("title", flagTarget).Msg("no stored copy found, this will be the first upload")
		}

		updater := syncer.NewUpdater(store, osfs.New(os.TempDir()), http.DefaultClient, flagTarget, log)
		action, err := updater.Run(ctx, current, stored)
		if err != nil {
			return err
		}
		log.Info().Str("action", string(action)).Str("filename", current.Filename).Msg("sync finished")
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVarP(&flagBucket, "bucket", "b", "", "bucket holding the stored copy")
	syncCmd.Flags().StringVar(&flagFilter, "filter", "bowielist", "substring selecting listing entries")
	syncCmd.Flags().StringVar(&flagTarget, "target", "bowielist", "title the stored copy is kept under")
	syncCmd.Flags().StringVar(&flagRegion, "region", "", "bucket region (default: credential chain region)")
	syncCmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "custom S3 endpoint URL")
	syncCmd.Flags().BoolVar(&flagPathStyle, "path-style", false, "use path-style bucket addressing")
	_ = syncCmd.MarkFlagRequired("bucket")
}
