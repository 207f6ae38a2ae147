package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/incidesk/internal/app"
	"github.com/samvad-hq/incidesk/internal/domain"
)

type consoleOpener func(ctx context.Context) (*app.Console, error)

// cli holds the console opened for the running command.
type cli struct {
	open    consoleOpener
	console *app.Console
}

// newRootCmd builds the command tree. The returned func closes the console, if one was opened.
func newRootCmd(open consoleOpener) (*cobra.Command, func() error) {
	c := &cli{open: open}
	root := &cobra.Command{
		Use:           "incidesk",
		Short:         "Incident desk API client",
		Long:          `Command line client for the users and incidents API with a persisted login session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			console, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			c.console = console
			return nil
		},
	}
	root.AddCommand(c.loginCmd(), c.logoutCmd(), c.statusCmd(), c.usersCmd(), c.incidentsCmd())
	return root, c.close
}

func (c *cli) close() error {
	if c.console == nil {
		return nil
	}
	return c.console.Close()
}

func (c *cli) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("INCIDESK_PASSWORD")
			}
			if password == "" {
				return fmt.Errorf("password is required (--password or INCIDESK_PASSWORD)")
			}
			if _, err := c.console.Client().Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			snap, err := c.console.Client().Session(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.console.Client().Logout(cmd.Context())
		},
	}
}

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := c.console.Client().Session(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		},
	}
}

func (c *cli) usersCmd() *cobra.Command {
	users := &cobra.Command{Use: "users", Short: "Manage users"}

	list := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.console.Client().ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	var nu domain.NewUser
	create := &cobra.Command{
		Use:  "create",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.console.Client().CreateUser(cmd.Context(), nu)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	create.Flags().StringVar(&nu.Name, "name", "", "display name")
	create.Flags().StringVar(&nu.Email, "email", "", "email address")
	create.Flags().StringVar(&nu.Password, "password", "", "initial password")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	del := &cobra.Command{
		Use:  "delete <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.console.Client().DeleteUser(cmd.Context(), id)
		},
	}

	get := &cobra.Command{
		Use:  "get <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := c.console.Client().GetUser(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	users.AddCommand(list, get, create, del)
	return users
}

func (c *cli) incidentsCmd() *cobra.Command {
	incidents := &cobra.Command{Use: "incidents", Short: "Manage incidents"}

	list := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.console.Client().ListIncidents(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	var ni domain.NewIncident
	var status string
	create := &cobra.Command{
		Use:  "create",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ni.Status = domain.IncidentStatus(status)
			if status != "" && !ni.Status.Valid() {
				return fmt.Errorf("invalid status %q", status)
			}
			out, err := c.console.Client().CreateIncident(cmd.Context(), ni)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	create.Flags().StringVar(&ni.Title, "title", "", "short title")
	create.Flags().StringVar(&ni.Description, "description", "", "details")
	create.Flags().Int64Var(&ni.UserID, "user-id", 0, "reporting user id")
	create.Flags().StringVar(&status, "status", "", "abierta, en_progreso or cerrada")
	_ = create.MarkFlagRequired("title")

	update := &cobra.Command{
		Use:  "update <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := patchFromFlags(cmd)
			if err != nil {
				return err
			}
			out, err := c.console.Client().UpdateIncident(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	update.Flags().String("title", "", "new title")
	update.Flags().String("description", "", "new description")
	update.Flags().String("status", "", "abierta, en_progreso or cerrada")
	update.Flags().Int64("user-id", 0, "new owner id")

	del := &cobra.Command{
		Use:  "delete <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.console.Client().DeleteIncident(cmd.Context(), id)
		},
	}

	get := &cobra.Command{
		Use:  "get <id>",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := c.console.Client().GetIncident(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	incidents.AddCommand(list, get, create, update, del)
	return incidents
}

// patchFromFlags only includes flags the user actually set.
func patchFromFlags(cmd *cobra.Command) (domain.IncidentPatch, error) {
	var patch domain.IncidentPatch
	flags := cmd.Flags()
	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		patch.Title = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		patch.Description = &v
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		s := domain.IncidentStatus(v)
		if !s.Valid() {
			return patch, fmt.Errorf("invalid status %q", v)
		}
		patch.Status = &s
	}
	if flags.Changed("user-id") {
		v, _ := flags.GetInt64("user-id")
		patch.UserID = &v
	}
	if patch == (domain.IncidentPatch{}) {
		return patch, fmt.Errorf("nothing to update")
	}
	return patch, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
