package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the decision tables file",
	Long: `Parses the tables file, checks structural validity (column arity,
	unique titles, hit policies) and compiles every expression cell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log.Info().Int("tables", len(cfg.Tables)).Msg("tables file is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
