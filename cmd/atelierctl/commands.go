package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/atelier/internal/auth"
	"github.com/vbonduro/atelier/internal/config"
	"github.com/vbonduro/atelier/internal/db"
)

// newRootCmd builds the operator CLI. Database commands read the same
// settings as the server.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atelierctl",
		Short: "Operator tools for the atelier site",
		Long: `atelierctl prepares an atelier deployment: it hashes the admin password
and applies or inspects database migrations.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.AddCommand(newHashPasswordCmd(), newMigrateCmd())
	return cmd
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long: `Print a bcrypt hash suitable for ADMIN_PASSWORD_HASH. The password is read
from the first line of standard input when no argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = line
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(func(conn *sql.DB, dialect db.Dialect) error {
					if err := db.Migrate(conn, dialect); err != nil {
						return err
					}
					version, _, err := db.Version(conn, dialect)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(func(conn *sql.DB, dialect db.Dialect) error {
					version, dirty, err := db.Version(conn, dialect)
					if err != nil {
						return err
					}
					if dirty {
						fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty)\n", version)
						return nil
					}
					fmt.Fprintln(cmd.OutOrStdout(), version)
					return nil
				})
			},
		},
	)
	return cmd
}

// withDatabase connects to the configured database and runs fn against it.
// The schema is left as found.
func withDatabase(fn func(*sql.DB, db.Dialect) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	dialect := db.Dialect(cfg.DBDriver)
	source := cfg.DBPath
	if dialect == db.Postgres {
		source = cfg.DatabaseURL
	}
	conn, err := db.Connect(dialect, source)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(conn, dialect)
}
