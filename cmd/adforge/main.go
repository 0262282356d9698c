// Package main provides the adforge command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adforge",
	Short: "Multi-variant marketing creative generator",
	Long:  "adforge turns a brand brief into finished marketing creatives across color schemes, ad formats, and languages: concept, copy decks, designs, brand logo, and final composited images.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
