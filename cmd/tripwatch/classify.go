package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shanehull/tripwatch/internal/classify"
)

func classifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file|-]",
		Short: "Classifies saved page text, read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		// Needs no config file.
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("could not open page text: %w", err)
				}
				defer f.Close()
				in = f
			}

			text, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("could not read page text: %w", err)
			}

			return printClassification(cmd.OutOrStdout(), classify.New(), string(text))
		},
	}
}

func printClassification(out io.Writer, c *classify.Classifier, text string) error {
	res := c.Classify(text)
	if !res.Available {
		if phrase := c.NegativePhrase(text); phrase != "" {
			_, err := fmt.Fprintf(out, "Unavailable (matched %q)\n", phrase)
			return err
		}
		_, err := fmt.Fprintln(out, "Unavailable (no availability signal)")
		return err
	}

	_, err := fmt.Fprintf(out, "Available: %s\nEvidence: %s\n", res.Reason, res.Evidence)
	return err
}
