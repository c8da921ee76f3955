package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/pricebook/internal/core"
)

type exportOptions struct {
	brand  string
	out    string
	format string
}

func newExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a brand's prices to a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := core.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			a, _, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			file, err := a.Service.Export(cmd.Context(), opts.brand, format)
			if err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), opts.out, file)
		},
	}

	cmd.Flags().StringVar(&opts.brand, "brand", "", "Brand slug (required)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output file or directory (default: generated name in the current directory, - for stdout)")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "File format: csv or xlsx")
	_ = cmd.MarkFlagRequired("brand")

	return cmd
}

// writeExport writes the file to out. An empty out or a directory gets the
// generated file name; "-" writes to stdout.
func writeExport(stdout io.Writer, out string, file *core.ExportFile) error {
	if out == "-" {
		_, err := stdout.Write(file.Data)
		return err
	}

	path := out
	if path == "" {
		path = file.FileName
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, file.FileName)
	}

	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "wrote %d rows to %s\n", file.Rows, path)
	return nil
}
