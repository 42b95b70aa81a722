package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/logging"
)

func (a *app) newDownloadCmd() *cobra.Command {
	var (
		formatID string
		outDir   string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download one format of a video page",
		Long: `Download the encoding named by --format, or the audio track as MP3 with
--format audio-mp3, into the output directory. The file is named after the
video title.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := downloader.ParseSelection(formatID)
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}

			res, err := svc.Download(cmd.Context(), args[0], sel)
			if err != nil {
				return err
			}
			defer res.Scratch.Remove()

			dest := filepath.Join(outDir, res.Filename)
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", dest)
				}
			}

			size, err := moveFile(res.Path, dest)
			if err != nil {
				return fmt.Errorf("saving download: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", dest, humanize.Bytes(uint64(size)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatID, "format", "f", "", "Format id listed by the info command, or audio-mp3")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	_ = cmd.MarkFlagRequired("format")
	return cmd
}

// moveFile renames src to dst, copying when they are on different
// filesystems. It returns the size of dst.
func moveFile(src, dst string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	if err := os.Rename(src, dst); err == nil {
		info, err := os.Stat(dst)
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	}
	logging.Debug("Rename %s failed, copying instead", src)

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	n, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(dst)
		return 0, err
	}
	return n, nil
}
