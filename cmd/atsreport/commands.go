package main

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"atscli/internal/config"
	"atscli/internal/exporter"
	"atscli/internal/files"
	"atscli/internal/infrastructure"
	"atscli/internal/validation"
)

func newPathsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show the resolved project paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			rows := []struct {
				name, path string
			}{
				{"project_root", a.paths.ProjectRoot},
				{"data", a.paths.DataDir},
				{"documents", a.paths.DocumentsDir},
				{"reports", a.paths.ReportsDir},
				{"logs", a.paths.LogsDir},
				{"documents_csv", a.paths.DocumentsCSV},
				{"measures_csv", a.paths.MeasuresCSV},
			}
			for _, r := range rows {
				mark := "missing"
				if config.FileExists(r.path) {
					mark = "ok"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.name, r.path, mark)
			}
			return tw.Flush()
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		pattern string
		csvOnly bool
		byTime  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the dataset files in the documents directory",
		Long: `list prints name, format and size of every dataset file in the documents
directory. The most recently modified file is marked with "latest".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			discovery := files.NewDiscovery(a.paths.ProjectRoot)

			var (
				found []files.FileInfo
				err   error
			)
			switch {
			case pattern != "":
				found, err = discovery.FindFilesByPattern(a.paths.DocumentsDir, pattern)
			case csvOnly:
				found, err = discovery.FindCSVFiles(a.paths.DocumentsDir)
			default:
				found, err = discovery.FindDatasetFiles(a.paths.DocumentsDir)
			}
			if err != nil {
				return err
			}
			if byTime {
				files.SortByModTime(found)
			}

			latest, _ := files.GetLatestFile(found)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, f := range found {
				mark := ""
				if f.Path == latest.Path {
					mark = "latest"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", f.Name, f.Format, f.Size, mark)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern matched against file names")
	cmd.Flags().BoolVar(&csvOnly, "csv", false, "list CSV files only")
	cmd.Flags().BoolVar(&byTime, "by-time", false, "sort oldest first instead of by name")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that both dataset files exist and are readable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := validation.NewFileValidator(a.logger).CheckDatasets(a.paths.DocumentsCSV, a.paths.MeasuresCSV)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, r := range results {
				status := "ok"
				if !r.OK() {
					status = "FAIL"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", status, r.Path, r.Size)
			}
			if flushErr := tw.Flush(); flushErr != nil {
				return flushErr
			}
			return err
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Load both datasets and write them to the reports directory",
		Long: `export loads the documents and measures tables and writes each one as
ats_<dataset>.<format>. Relative output directories are placed under the
reports directory. Written files are printed relative to the project root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}

			ds, err := a.loadDatasets(cmd.Context())
			if err != nil {
				return err
			}

			manager := files.NewManager(a.paths, a.logger)
			if err := validation.NewFileValidator(a.logger).ValidateOutputDirectory(manager.ResolvePath(out)); err != nil {
				return err
			}

			logger := infrastructure.LoggerFromContext(cmd.Context())
			exp := exporter.New(manager, logger)
			written, err := exp.Export(cmd.Context(), ds.Named(), f, out)
			if err != nil {
				return err
			}
			for _, path := range written {
				// paths outside the project root print as written
				if rel, err := manager.RelativePath(path); err == nil && filepath.IsLocal(rel) {
					path = rel
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(exporter.FormatCSV), "output format (csv or xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default: reports directory)")
	return cmd
}
