package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"media-fetcher/internal/downloader"
	"media-fetcher/internal/formats"
)

func (a *app) newInfoCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <url>",
		Short: "List the downloadable formats of a video page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			info, err := svc.FetchMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			selected := formats.Select(*info.Metadata)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(selected)
			}
			return printFormats(cmd.OutOrStdout(), info, selected)
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Print the selected formats as JSON")
	return cmd
}

func printFormats(out io.Writer, info *downloader.Info, selected []formats.Encoding) error {
	title := info.Metadata.Title
	if title == "" {
		title = downloader.DefaultTitle
	}
	fmt.Fprintf(out, "%s\n", title)
	if info.Instance != "" {
		fmt.Fprintf(out, "via %s\n", info.Instance)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tRESOLUTION\tFPS\tVCODEC\tSIZE\tNOTE")
	for _, enc := range selected {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			enc.FormatID, resolution(enc), fps(enc), enc.VCodec, humanize.Bytes(uint64(enc.Size())), enc.FormatNote)
	}
	fmt.Fprintf(tw, "%s\taudio only\t\tmp3\t\t\n", downloader.AudioFormatID)
	return tw.Flush()
}

func resolution(enc formats.Encoding) string {
	switch {
	case enc.Width != nil && enc.Height != nil:
		return fmt.Sprintf("%dx%d", *enc.Width, *enc.Height)
	case enc.Height != nil:
		return strconv.Itoa(*enc.Height) + "p"
	default:
		return ""
	}
}

func fps(enc formats.Encoding) string {
	if enc.FPS == nil || *enc.FPS <= 0 {
		return ""
	}
	return strconv.FormatFloat(*enc.FPS, 'f', -1, 64)
}
