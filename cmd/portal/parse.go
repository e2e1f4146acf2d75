package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-portal/internal/content"
)

var parseCmd = &cobra.Command{
	Use:   "parse [FILE]",
	Short: "Parse authoring text and print the questions as JSON (reads stdin without FILE)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		k := content.Kind(kind)
		if !k.Valid() {
			return fmt.Errorf("--kind must be %q or %q", content.KindOpenAnswer, content.KindMultipleChoice)
		}

		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		text, err := io.ReadAll(in)
		if err != nil {
			return err
		}

		qs := content.Parse(k, string(text))
		if len(qs) == 0 {
			return content.ErrParseEmpty
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(qs)
	},
}

func init() {
	parseCmd.Flags().String("kind", string(content.KindOpenAnswer), "Content kind: assignment or quiz")
}
