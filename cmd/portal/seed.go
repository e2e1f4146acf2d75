package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-portal/internal/portal"
)

var seedCmd = &cobra.Command{
	Use:   "seed BUNDLE.yaml",
	Short: "Create content records from a YAML bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		b, err := portal.LoadBundle(f)
		if err != nil {
			return err
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sets, err := a.Service.Seed(cmdContext(cmd), "seed", b)
		for _, s := range sets {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d questions\n", s.ID, s.Kind, s.Title, len(s.Questions))
		}
		return err
	},
}
