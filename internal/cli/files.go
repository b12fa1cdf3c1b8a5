package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/libertil/eea-cdrtools/internal/domain"
)

func filesCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "files",
		Short: "Move documents in and out of envelopes",
	}

	c.AddCommand(
		filesDownloadCmd(opts),
		filesUploadCmd(opts),
	)
	return c
}

func filesDownloadCmd(opts *rootOptions) *cobra.Command {
	var dest string
	var only []string

	c := &cobra.Command{
		Use:   "download ENVELOPE_URL",
		Short: "Download envelope files and print their checksums",
		Long: `Download the files of an envelope into a directory and print one
"sha256  name" line per file, in the style of sha256sum.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			env, err := tool.client.Envelope(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			dir := dest
			if dir == "" {
				dir = tool.cfg.Paths.DownloadDir
			}
			if dir == "" {
				dir = "."
			}

			files := matchFiles(env.Files, only)
			if len(files) == 0 {
				tool.reporter.Stepf("no files to download in %s", env.ID())
				return nil
			}

			for _, f := range files {
				name := f.Name()
				sha, err := tool.client.Download(cmd.Context(), f.URL, dir, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s  %s\n", sha, name)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&dest, "dest", "d", "", "target directory (default from config, else the working directory)")
	c.Flags().StringSliceVar(&only, "only", nil, "download only these file names (repeatable)")
	return c
}

// matchFiles keeps the files whose name is in only; an empty filter keeps
// everything. Names compare case-insensitively.
func matchFiles(files []domain.File, only []string) []domain.File {
	if len(only) == 0 {
		return files
	}
	keep := make([]domain.File, 0, len(files))
	for _, f := range files {
		name := f.Name()
		for _, want := range only {
			if strings.EqualFold(name, strings.TrimSpace(want)) {
				keep = append(keep, f)
				break
			}
		}
	}
	return keep
}

func filesUploadCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "upload ENVELOPE_URL FILE...",
		Short: "Upload documents into a draft envelope",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, err := openTool(opts)
			if err != nil {
				return err
			}
			defer tool.Close()

			envelopeURL := args[0]
			for _, path := range args[1:] {
				if err := tool.client.Upload(cmd.Context(), envelopeURL, path); err != nil {
					return err
				}
				tool.reporter.Stepf("uploaded %s", filepath.Base(path))
			}
			return nil
		},
	}
	return c
}
