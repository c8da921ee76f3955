package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricebook/internal/core"
)

type importOptions struct {
	brand  string
	file   string
	dryRun bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Apply an edited CSV price file to a brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := core.CheckImportFileName(opts.file); err != nil {
				return err
			}
			f, err := os.Open(opts.file)
			if err != nil {
				return fmt.Errorf("%w: %v", core.ErrUnreadableFile, err)
			}
			defer f.Close()

			a, cfg, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := core.ReadImportFile(f, cfg.Import.MaxFileSize)
			if err != nil {
				return err
			}

			result, err := a.Service.Import(cmd.Context(), core.ImportRequest{
				Brand:    opts.brand,
				FileName: filepath.Base(opts.file),
				Data:     data,
				DryRun:   opts.dryRun,
			})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&opts.brand, "brand", "", "Brand slug (required)")
	cmd.Flags().StringVar(&opts.file, "file", "", "CSV price file to import (required)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Reconcile without saving")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// printResult writes a summary and every row error. It returns errRowErrors
// when the import reported any.
func printResult(w io.Writer, r *core.ImportResult) error {
	mode := "applied"
	if r.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(w, "import %s (%s): %d updated, %d unchanged, %d skipped, %d errors\n",
		r.ImportID, mode, r.SuccessCount, r.Unchanged, r.Skipped, len(r.Errors))
	for _, c := range r.Changes {
		fmt.Fprintf(w, "  %s %s: %s -> %s\n", c.Kind, c.EntityID, c.OldPrice, c.NewPrice)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
	if len(r.Errors) > 0 {
		return errRowErrors
	}
	return nil
}
