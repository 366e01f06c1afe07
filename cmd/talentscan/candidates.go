package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"talentscan/internal/candidate"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Inspect stored candidates",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all candidates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEnv(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer e.Close()
		e.warnVolatile(cmd.ErrOrStderr())

		cs, err := e.store.GetAllCandidates(cmd.Context())
		if err != nil {
			return err
		}
		return writeTable(cmd.OutOrStdout(), cs)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one candidate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer e.Close()

		c, err := e.store.GetCandidate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Find candidates whose skills or work summary contain text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer e.Close()
		e.warnVolatile(cmd.ErrOrStderr())

		cs, err := e.store.SearchCandidates(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeTable(cmd.OutOrStdout(), cs)
	},
}

func init() {
	candidatesCmd.AddCommand(listCmd, getCmd, searchCmd)
	rootCmd.AddCommand(candidatesCmd)
}

func writeTable(w io.Writer, cs []candidate.Candidate) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPOSITION\tYEARS\tSKILLS")
	for _, c := range cs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%s\n",
			c.ID, c.FullName(), c.Email, c.CurrentPosition, c.YearsOfExperience, strings.Join(c.Skills, ", "))
	}
	return tw.Flush()
}
