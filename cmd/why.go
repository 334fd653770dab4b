package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/techmaxsolucoes/bkflow-dmn/internal/audit"
	"github.com/techmaxsolucoes/bkflow-dmn/internal/engine"
)

var whySummary bool

var whyCmd = &cobra.Command{
	Use:   "why TABLE [fact=value ...]",
	Short: "Explain why rules of a decision table fired (or did not)",
	Long: `Evaluates a decision table with audit recording enabled and prints the
	full trace: the match vector per rule, the raw condition cells, and the
	output expressions with the fact values substituted in.
	Useful for debugging why a specific rule is (not) firing.`,
	Example: `  # Why did the "Loan Approval" table decide the way it did?
  bkdmn why "Loan Approval" amount=5000 score=720 vip=true`,
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

		session := audit.NewSession()
		session.Start()
		ctx := audit.NewContext(cmd.Context(), session)

		_, decideErr := eng.Decide(ctx, args[0], facts)
		trail := session.Stop()

		// a hit-policy violation is exactly what the trail explains, so
		// print it before surfacing the error
		if whySummary {
			printTrailSummary(trail)
		} else {
			printTrail(trail)
		}

		if decideErr != nil && !errors.Is(decideErr, engine.ErrHitPolicyViolated) {
			return decideErr
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whyCmd)

	whyCmd.Flags().BoolVar(&whySummary, "summary", false, "Print a one-line-per-trace summary table instead of details")
}
