package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"talentscan/internal/cv"
)

var showText bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Extract candidate fields from a resume without storing them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.ingestService(ctx)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := svc.Parse(ctx, filepath.Base(args[0]), cv.MediaTypeByFilename(args[0]), f)
		if err != nil {
			return err
		}
		if showText {
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return printJSON(cmd.OutOrStdout(), res.Fields)
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Ingest resumes into the candidate store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := newEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()
		e.warnVolatile(cmd.ErrOrStderr())

		svc, err := e.ingestService(ctx)
		if err != nil {
			return err
		}

		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			c, err := svc.Upload(ctx, filepath.Base(path), cv.MediaTypeByFilename(path), f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", c.ID, c.FullName(), c.Email)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&showText, "text", false, "also print the extracted document text")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(uploadCmd)
}
