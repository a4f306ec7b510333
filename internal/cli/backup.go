package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gwen2d/internal/backup"
)

func (a *app) newBackupCmd() *cobra.Command {
	var override backup.Config
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload the project database to an S3-compatible bucket",
		Long: "Upload the project database file to <prefix>/<project>/<UTC timestamp>.db.\n" +
			"Flags override the backup section of config.yaml. Credentials come from\n" +
			"GWEN2D_BACKUP_ACCESS_KEY_ID / GWEN2D_BACKUP_SECRET_ACCESS_KEY or the\n" +
			"default AWS credential chain.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.existingProjectPath()
			if err != nil {
				return err
			}

			cfg := backupConfig(a.cfg)
			flags := cmd.Flags()
			if flags.Changed("bucket") {
				cfg.Bucket = override.Bucket
			}
			if flags.Changed("region") {
				cfg.Region = override.Region
			}
			if flags.Changed("endpoint") {
				cfg.Endpoint = override.Endpoint
			}
			if flags.Changed("prefix") {
				cfg.Prefix = override.Prefix
			}
			if flags.Changed("path-style") {
				cfg.PathStyle = override.PathStyle
			}

			u, err := backup.New(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}
			key, err := u.Upload(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s to s3://%s/%s\n", path, cfg.Bucket, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&override.Bucket, "bucket", "", "target bucket")
	cmd.Flags().StringVar(&override.Region, "region", "", "bucket region")
	cmd.Flags().StringVar(&override.Endpoint, "endpoint", "", "S3-compatible endpoint URL, e.g. for MinIO")
	cmd.Flags().StringVar(&override.Prefix, "prefix", "", "key prefix")
	cmd.Flags().BoolVar(&override.PathStyle, "path-style", false, "use path-style addressing")
	return cmd
}
