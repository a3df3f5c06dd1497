package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cargobloc/cargodoc"
	"github.com/cargobloc/cargodoc/assemble"
	"github.com/cargobloc/cargodoc/config"
	"github.com/cargobloc/cargodoc/internal/input"
)

// app is the state shared by the subcommands once the root command has run.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	assembler *assemble.Assembler
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "cargodoc",
		Short:         "Render CargoBloc ledgers, manifests and receipts as PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			asm, err := cfg.Assembler(logger)
			if err != nil {
				return err
			}
			a.cfg, a.logger, a.assembler = cfg, logger, asm
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.AddCommand(a.ledgerCmd(), a.manifestCmd(), a.receiptCmd(), a.layoutCmd())
	return root
}

// output returns the path to write to: the --out flag when given, otherwise
// a unique name in the configured output directory.
func (a *app) output(out, prefix, id string) (string, error) {
	if out != "" {
		return out, nil
	}
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return "", err
	}
	return a.cfg.Output(cargodoc.OutputName(prefix, id, time.Now())), nil
}

func (a *app) report(cmd *cobra.Command, path string, warnings []error) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
}

func (a *app) ledgerCmd() *cobra.Command {
	var (
		rowsPath, out, client, email, phone, day string
	)
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Render a ledger report from a CSV of BL rows",
		Long: `Reads rows with the columns bl_number, total, paid and created_at and renders
a paginated summary with running totals.

With --day the rows created on that day are exported under a "Filtered BLs"
header instead of a client's name; an empty selection is refused.

Example:
  cargodoc ledger --rows bls.csv --client "Kofi Mensah" --email kofi@example.com
  cargodoc ledger --rows bls.csv --day 2025-01-03`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := input.ReadLedgerCSVFile(rowsPath, a.logger)
			if err != nil {
				return err
			}
			id := client
			if day != "" {
				id = "filtered_" + day
			}
			path, err := a.output(out, "ledger", id)
			if err != nil {
				return err
			}

			var rep *assemble.LedgerReport
			if day != "" {
				d, err := time.ParseInLocation("2006-01-02", day, time.Local)
				if err != nil {
					return fmt.Errorf("--day: %w", err)
				}
				rows = input.FilterByDay(rows, d)
				if len(rows) == 0 {
					return cargodoc.NewError("RenderFilteredLedger", "", cargodoc.ErrEmptyInput,
						fmt.Errorf("no BLs created on %s", day))
				}
				rep, err = a.assembler.RenderLedgerFile(path, cargodoc.FilteredSubject(day), rows)
				if err != nil {
					return err
				}
			} else {
				rep, err = a.assembler.RenderLedgerFile(path, cargodoc.ClientSubject(client, email, phone), rows)
				if err != nil {
					return err
				}
			}
			a.report(cmd, path, rep.Warnings)
			return nil
		},
	}
	cmd.Flags().StringVar(&rowsPath, "rows", "", "CSV file of ledger rows")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: a unique name in the output directory)")
	cmd.Flags().StringVar(&client, "client", "", "client name")
	cmd.Flags().StringVar(&email, "email", "", "client email")
	cmd.Flags().StringVar(&phone, "phone", "", "client phone")
	cmd.Flags().StringVar(&day, "day", "", "export only rows created on this day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func (a *app) manifestCmd() *cobra.Command {
	var recordPath, out string
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Overlay a manifest record on the House BL template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(recordPath)
			if err != nil {
				return err
			}
			defer f.Close()
			rec, err := input.ReadManifestYAML(f)
			if err != nil {
				return err
			}
			path, err := a.output(out, "manifest", rec.BLNumber)
			if err != nil {
				return err
			}
			rep, err := a.assembler.RenderManifest(rec, path)
			if err != nil {
				return err
			}
			a.report(cmd, path, rep.Warnings)
			return nil
		},
	}
	cmd.Flags().StringVar(&recordPath, "record", "", "YAML file of the manifest record")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: a unique name in the output directory)")
	_ = cmd.MarkFlagRequired("record")
	cmd.AddCommand(a.manifestBatchCmd())
	return cmd
}

func (a *app) manifestBatchCmd() *cobra.Command {
	var (
		recordsPath, outDir string
		limit               int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render a YAML list of manifest records concurrently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(recordsPath)
			if err != nil {
				return err
			}
			defer f.Close()
			recs, err := input.ReadManifestsYAML(f)
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.cfg.OutputDir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.cfg.BatchLimit
			}

			now := time.Now()
			jobs := make([]assemble.ManifestJob, len(recs))
			for i, rec := range recs {
				jobs[i] = assemble.ManifestJob{
					Record: rec,
					Output: filepath.Join(outDir, cargodoc.OutputName("manifest", rec.BLNumber, now)),
				}
			}
			reports, err := a.assembler.RenderManifests(cmd.Context(), jobs, limit)
			for _, rep := range reports {
				if rep != nil {
					a.report(cmd, rep.Output, rep.Warnings)
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&recordsPath, "records", "", "YAML file with a list of manifest records")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "output directory (default: the configured output directory)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum concurrent renders (default: CARGODOC_BATCH_LIMIT)")
	_ = cmd.MarkFlagRequired("records")
	return cmd
}

func (a *app) receiptCmd() *cobra.Command {
	var receiptPath, out string
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Render a payment receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(receiptPath)
			if err != nil {
				return err
			}
			defer f.Close()
			rec, err := input.ReadReceiptYAML(f)
			if err != nil {
				return err
			}
			path, err := a.output(out, "receipt", rec.Number)
			if err != nil {
				return err
			}
			res, err := a.assembler.RenderReceiptFile(path, rec)
			if err != nil {
				return err
			}
			a.report(cmd, path, res.Warnings)
			return nil
		},
	}
	cmd.Flags().StringVar(&receiptPath, "receipt", "", "YAML file of the receipt")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: a unique name in the output directory)")
	_ = cmd.MarkFlagRequired("receipt")
	return cmd
}

func (a *app) layoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the effective manifest placement table as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.assembler.ManifestLayout().Marshal(cmd.OutOrStdout())
		},
	}
}
