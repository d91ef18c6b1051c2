package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayberkarici/fucom/internal/storage"
)

func newCheckDriveCmd(flags *globalFlags) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "check-drive",
		Short: "Verify the service account can reach the Drive folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			up, err := storage.NewDriveUploader(ctx, cfg.DriveSettings())
			if err != nil {
				return err
			}
			info, err := up.CheckFolderAccess(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "folder %s (%s) is reachable\n", info.ID, info.Name)
			if !info.IsFolder {
				fmt.Fprintln(out, "warning: the configured ID is not a folder")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}
