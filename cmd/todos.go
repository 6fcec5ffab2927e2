/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"todo/todo"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <text...>",
	Short: "Create a todo and print its id",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := newClient(cmd).Create(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a todo as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		msg, err := newClient(cmd).Complete(cmd.Context(), id)
		return printResult(cmd, todo.OpComplete, msg, err)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print the text of a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		text, err := newClient(cmd).Get(cmd.Context(), id)
		return printResult(cmd, "", text, err)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Print whether a todo is completed",
	Long: `Print whether a todo is completed.

An unknown id prints false, the same as an incomplete todo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		done, err := newClient(cmd).IsCompleted(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), done)
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of todos ever created",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newClient(cmd).Count(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		msg, err := newClient(cmd).Delete(cmd.Context(), id)
		return printResult(cmd, todo.OpDelete, msg, err)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the invocations recorded by the host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := newClient(cmd).Events(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range events {
			fmt.Fprintf(out, "%s  %-8s  %d  found=%t  %s\n",
				e.Timestamp.Format("2006-01-02T15:04:05Z07:00"), e.Op, e.TodoID, e.Found, e.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd, completeCmd, getCmd, statusCmd, countCmd, deleteCmd, eventsCmd)
}

// printResult prints the not-found message as a normal result; only
// transport and host failures make the command fail.
func printResult(cmd *cobra.Command, op todo.Op, out string, err error) error {
	if err != nil && !errors.Is(err, todo.ErrNotFound) {
		return err
	}
	if err != nil {
		out = todo.Message(op, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
