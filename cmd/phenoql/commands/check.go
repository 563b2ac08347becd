package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <script>",
		Short: "Parse and validate a phenotype script without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.app.Check(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("%s is valid: %d defines, %d final\n",
				lib.Name, len(lib.Defines), len(lib.FinalDefines()))
			return nil
		},
	}
}
