package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpattn/credittrack/internal/ingestion"
)

var (
	importFile        string
	importProjectType string
	importOperator    string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import one spreadsheet as a single batch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		f, err := os.Open(importFile)
		if err != nil {
			return eris.Wrapf(err, "open %s", importFile)
		}
		defer f.Close()

		env, err := initApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		summary, err := env.service.Import(context.WithoutCancel(ctx), ingestion.Request{
			ProjectTypeID: importProjectType,
			Operator:      importOperator,
			FileName:      filepath.Base(importFile),
			Data:          f,
		})
		if err != nil {
			return eris.Wrap(err, "import")
		}

		zap.L().Info("import complete",
			zap.String("file", importFile),
			zap.Int("rows", summary.RowsImported),
		)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to the .xlsx or .csv file (required)")
	importCmd.Flags().StringVar(&importProjectType, "project-type", "", "project type id (required)")
	importCmd.Flags().StringVar(&importOperator, "operator", "", "operator recorded on the batch (required)")
	_ = importCmd.MarkFlagRequired("file")
	_ = importCmd.MarkFlagRequired("project-type")
	_ = importCmd.MarkFlagRequired("operator")
	rootCmd.AddCommand(importCmd)
}
