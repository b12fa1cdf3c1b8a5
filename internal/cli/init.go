package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/libertil/eea-cdrtools/internal/infra/fsconfig"
	"github.com/libertil/eea-cdrtools/internal/usecase"
)

func initCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Scaffold a cdrtools configuration directory",
		Long: `Write a commented cdrtools.yaml, an example envelope list, and the
sessions/, logs/ and downloads/ directories into DIR (default ".").
Existing files are kept unless --force is given.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return usageErr(fmt.Errorf("invalid directory %q: %w", dir, err))
			}

			uc := usecase.NewInitTool(fsconfig.NewInitializer())
			if err := uc.Execute(abs, force); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "initialized cdrtools config in %s\n", abs)
			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "overwrite files that already exist")
	return c
}
