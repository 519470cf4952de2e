package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittonas/internal/cli/output"
	"github.com/marmos91/dittonas/internal/cli/prompt"
	"github.com/marmos91/dittonas/pkg/controlplane/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage API users",
	Long: `Manage the accounts allowed to use the DittoNAS API.

These commands open the control plane database directly and work while
the server is stopped, e.g. to recover a lost admin password.`,
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd <username>",
	Short: "Set a user's password",
	Long: `Set a user's password from an interactive prompt.

The user does not have to change it again at the next login.

Examples:
  dnas user passwd admin`,
	Args: cobra.ExactArgs(1),
	RunE: runUserPasswd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

func init() {
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userListCmd)
}

func runUserPasswd(cmd *cobra.Command, args []string) error {
	username := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cpStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cpStore.Close() }()

	ctx := cmd.Context()
	if _, err := cpStore.GetUser(ctx, username); err != nil {
		return err
	}

	password, err := prompt.NewPassword()
	if err != nil {
		if prompt.IsAborted(err) {
			return fmt.Errorf("aborted")
		}
		return err
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return err
	}
	if err := cpStore.UpdatePassword(ctx, username, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	printer, err := newPrinter(cmd, output.FormatTable)
	if err != nil {
		return err
	}
	printer.Success(fmt.Sprintf("Password updated for %s", username))
	return nil
}

// userRow is the printable part of a user; the password hash stays out.
type userRow struct {
	Username           string     `json:"username" yaml:"username"`
	Role               string     `json:"role" yaml:"role"`
	Enabled            bool       `json:"enabled" yaml:"enabled"`
	MustChangePassword bool       `json:"must_change_password" yaml:"must_change_password"`
	Email              string     `json:"email,omitempty" yaml:"email,omitempty"`
	LastLogin          *time.Time `json:"last_login,omitempty" yaml:"last_login,omitempty"`
}

type userList []userRow

func newUserList(users []*models.User) userList {
	out := make(userList, 0, len(users))
	for _, u := range users {
		out = append(out, userRow{
			Username:           u.Username,
			Role:               u.Role,
			Enabled:            u.Enabled,
			MustChangePassword: u.MustChangePassword,
			Email:              u.Email,
			LastLogin:          u.LastLogin,
		})
	}
	return out
}

func (l userList) Headers() []string {
	return []string{"USERNAME", "ROLE", "ENABLED", "MUST CHANGE PASSWORD", "LAST LOGIN"}
}

func (l userList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, u := range l {
		lastLogin := "never"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			u.Username,
			u.Role,
			strconv.FormatBool(u.Enabled),
			strconv.FormatBool(u.MustChangePassword),
			lastLogin,
		})
	}
	return rows
}

func runUserList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printer, err := newPrinter(cmd, output.FormatTable)
	if err != nil {
		return err
	}

	cpStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cpStore.Close() }()

	users, err := cpStore.ListUsers(cmd.Context())
	if err != nil {
		return err
	}
	return printer.Print(newUserList(users))
}
