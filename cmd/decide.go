package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/audit"
	"github.com/techmaxsolucoes/bkflow-dmn/internal/engine"
)

var (
	decideAudit  bool
	decideExport string
)

var decideCmd = &cobra.Command{
	Use:   "decide TABLE [fact=value ...]",
	Short: "Evaluate a decision table against a set of facts",
	Example: `  # Evaluate the "Loan Approval" table
  bkdmn decide "Loan Approval" amount=5000 score=720 vip=true

  # Same, but record and print the audit trail
  bkdmn decide "Loan Approval" amount=5000 score=720 --audit`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		facts, err := parseFacts(args[1:])
		if err != nil {
			return err
		}

		eng := engine.New(cfg.Tables)

		ctx := cmd.Context()
		var session *audit.Session
		if decideAudit || cfg.Audit.Enabled {
			session = audit.NewSession()
			session.Start()
			ctx = audit.NewContext(ctx, session)
		}

		result, decideErr := eng.Decide(ctx, args[0], facts)

		if session != nil {
			trail := session.Stop()
			printTrail(trail)

			exportPath := decideExport
			if exportPath == "" && cfg.Audit.Type == "file" {
				exportPath = cfg.Audit.Path
			}
			if exportPath != "" {
				sink, err := audit.NewFileSink(exportPath)
				if err != nil {
					return err
				}
				defer sink.Close()
				if err := audit.ExportTrail(sink, trail); err != nil {
					return err
				}
				log.Info().Str("path", exportPath).Int("traces", trail.Len()).Msg("exported audit trail")
			}
		}

		if decideErr != nil {
			return decideErr
		}

		out, err := json.MarshalIndent(result.FinalResult, "", "  ")
		if err != nil {
			return fmt.Errorf("rendering result: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().BoolVar(&decideAudit, "audit", false, "Record and print an audit trail for this evaluation")
	decideCmd.Flags().StringVar(&decideExport, "export", "", "Append the recorded trail to this file as JSON lines")
}
