package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractCookiesFile string

var extractCmd = &cobra.Command{
	Use:   "extract [flags] <video url>",
	Short: "Extract a single video and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractCookiesFile, "cookies-file", "", "file with Netscape or header-style cookies")
}

func runExtract(cmd *cobra.Command, args []string) error {
	_, _, svc, err := bootstrap()
	if err != nil {
		return err
	}

	var cookies string
	if extractCookiesFile != "" {
		data, err := os.ReadFile(extractCookiesFile)
		if err != nil {
			return fmt.Errorf("read cookies file: %w", err)
		}
		cookies = string(data)
	}

	info, err := svc.Extract(cmd.Context(), args[0], cookies)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
