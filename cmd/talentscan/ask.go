package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"talentscan/internal/chat"
)

const (
	promptAsk  = "Ask a question"
	promptRank = "Rank for a role"
	promptExit = "Exit"
)

var askRole string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the stored candidates",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		if question == "" && askRole == "" {
			return errors.New("a question or --role is required")
		}

		e, err := newEnv(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer e.Close()
		e.warnVolatile(cmd.ErrOrStderr())

		answer, err := e.chatService().Ask(cmd.Context(), chat.Request{Query: question, Role: askRole})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question and ranking session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEnv(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer e.Close()
		e.warnVolatile(cmd.ErrOrStderr())

		svc := e.chatService()
		out := cmd.OutOrStdout()

		for {
			mode := promptui.Select{
				Label: "What next?",
				Items: []string{promptAsk, promptRank, promptExit},
			}
			_, choice, err := mode.Run()
			if err != nil {
				return ignoreInterrupt(err)
			}

			var req chat.Request
			switch choice {
			case promptExit:
				return nil
			case promptAsk:
				q, err := (&promptui.Prompt{Label: "Question", Validate: notBlank}).Run()
				if err != nil {
					return ignoreInterrupt(err)
				}
				req.Query = q
			case promptRank:
				role, err := (&promptui.Prompt{Label: "Role", Validate: notBlank}).Run()
				if err != nil {
					return ignoreInterrupt(err)
				}
				req.Role = role
			}

			answer, err := svc.Ask(cmd.Context(), req)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n\n", err)
				continue
			}
			fmt.Fprintf(out, "\n%s\n\n", answer)
		}
	},
}

func init() {
	askCmd.Flags().StringVarP(&askRole, "role", "r", "", "rank all candidates for this role instead of answering")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func ignoreInterrupt(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return err
}
