package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/models"
)

func newModelsCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := models.DefaultModel.Name
			if cfg, err := config.LoadConfig(); err == nil {
				current = cfg.DefaultModel
			}

			w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tDESCRIPTION\tDEFAULT")
			_, _ = fmt.Fprintln(w, "----\t-----------\t-------")
			for _, m := range models.AllModels() {
				isDefault := ""
				if m.Name == current {
					isDefault = "✓"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Description, isDefault)
			}
			return w.Flush()
		},
	}
}
