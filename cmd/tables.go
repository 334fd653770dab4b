package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the configured decision tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Title", "Hit Policy", "Inputs", "Outputs", "Rules",
		})

		for _, dt := range cfg.Tables {
			t.AppendRow(table.Row{
				truncate(dt.Title, 40),
				string(dt.EffectiveHitPolicy()),
				len(dt.Inputs),
				len(dt.Outputs),
				len(dt.Rules),
			})
		}

		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
