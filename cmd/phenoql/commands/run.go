package commands

import (
	"github.com/spf13/cobra"
	"go.phenora.dev/phenoql/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a phenotype script and publish memberships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noCache, _ := cmd.Flags().GetBool("no-cache")
			parallelism, _ := cmd.Flags().GetInt("parallelism")
			debug, _ := cmd.Flags().GetBool("debug")

			report, err := c.app.Run(cmd.Context(), args[0], app.RunOptions{
				NoCache:     noCache,
				Parallelism: parallelism,
				Debug:       debug,
			})
			if err != nil {
				return err
			}

			qualified := 0
			for _, m := range report.Memberships {
				if m.Qualifies {
					qualified++
				}
			}
			cmd.Printf("run %s: %s\n", report.RunID, report.State)
			cmd.Printf("  phenotype:   %s\n", report.Phenotype)
			cmd.Printf("  subjects:    %d\n", report.Subjects)
			cmd.Printf("  memberships: %d (%d qualify)\n", len(report.Memberships), qualified)
			cmd.Printf("  cache:       %d hits, %d misses\n", report.CacheHits, report.CacheMisses)
			if len(report.SubjectErrors) > 0 {
				cmd.Printf("  errors:      %d\n", len(report.SubjectErrors))
				for _, e := range report.SubjectErrors {
					if e.Subject != "" {
						cmd.Printf("    %s/%s: %s\n", e.Define, e.Subject, e.Message)
					} else {
						cmd.Printf("    %s: %s\n", e.Define, e.Message)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("no-cache", false, "Bypass the result cache")
	cmd.Flags().Int("parallelism", 0, "Override worker pool size")
	return cmd
}
