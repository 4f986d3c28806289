package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/osconnect/internal/domain/search/request"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var (
		f      request.Filters
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every matching document as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if err := a.waitForCluster(ctx); err != nil {
				return err
			}
			_, exportSvc := services(a)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(filepath.Clean(output))
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer func() { _ = file.Close() }()
				w = file
			}

			bw := bufio.NewWriter(w)
			n, err := exportSvc.Export(ctx, f, bw)
			if err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}

			a.logger.Info("Export finished",
				zap.Int("records", n),
				zap.String("output", output),
			)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.Region, "region", request.DefaultRegion, "region filter")
	fl.StringVar(&f.BusinessArea, "business-area", request.DefaultBusinessArea, "business area filter")
	fl.StringVar(&f.EntityName, "entity-name", "", "entity name filter")
	fl.StringVar(&f.DataSource, "data-source", "", "data source filter")
	fl.StringVar(&f.DateFrom, "from", "", "first trade date, YYYY-MM-DD")
	fl.StringVar(&f.DateTo, "to", "", "last trade date, YYYY-MM-DD")
	fl.StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
