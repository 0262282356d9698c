package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rafael/adforge/internal/palette"
)

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List the built-in color schemes",
	Long:  "List the built-in color schemes with their role colors. Use --variations to preview the hue-rotated derivations large batches draw from.",
	RunE:  runPalettes,
}

var palettesVariations int

func init() {
	palettesCmd.Flags().IntVar(&palettesVariations, "variations", 0, "Also show N derived variations per scheme")
	rootCmd.AddCommand(palettesCmd)
}

func runPalettes(_ *cobra.Command, _ []string) error {
	for _, s := range palette.DefaultSchemes() {
		fmt.Fprintf(os.Stdout, "%-10s %s\n", s.ID, s.Description)
		fmt.Fprintf(os.Stdout, "           primary %s  secondary %s  accent %s\n", s.Primary(), s.Secondary(), s.Accent())
		if neutrals := s.Neutrals(); len(neutrals) > 0 {
			fmt.Fprintf(os.Stdout, "           neutrals %s\n", strings.Join(neutrals, " "))
		}
		for i := 1; i <= palettesVariations; i++ {
			d := palette.Derive(s, i)
			fmt.Fprintf(os.Stdout, "           %-24s primary %s  secondary %s  accent %s\n", d.Label, d.Primary(), d.Secondary(), d.Accent())
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
