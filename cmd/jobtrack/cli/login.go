package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginServer  string
	loginEmail   string
	registerName string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with a jobtrack server",
	Long: `Authenticate with a jobtrack server using email and password.
The session is stored in ~/.jobtrack/session.json with 0600 permissions.

Example:
  jobtrack login --server https://jobs.example.com --email user@example.com`,
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	Long: `Create an account on a jobtrack server and store the session.

Example:
  jobtrack register --server http://localhost:8080 --email user@example.com --name "Ada Lovelace"`,
	RunE: runRegister,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&loginServer, "server", "", "jobtrack server URL (e.g. https://jobs.example.com)")
		c.Flags().StringVar(&loginEmail, "email", "", "Email address for authentication")
		c.MarkFlagRequired("server")
		c.MarkFlagRequired("email")
	}
	registerCmd.Flags().StringVar(&registerName, "name", "", "Your full name")
	registerCmd.MarkFlagRequired("name")
}

func serverURL() (string, error) {
	server := strings.TrimRight(loginServer, "/")
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		return "", errors.New("server URL must start with http:// or https://")
	}
	return server, nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	server, err := serverURL()
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return errors.Wrap(err, "failed to read password")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	fmt.Fprintf(os.Stderr, "Authenticating with %s...\n", server)
	token, err := NewClientWithURL(server).Login(cmd.Context(), loginEmail, password)
	if err != nil {
		return errors.Wrap(err, "login failed")
	}
	return saveAndReport(server, token)
}

func runRegister(cmd *cobra.Command, args []string) error {
	server, err := serverURL()
	if err != nil {
		return err
	}
	password, err := readPassword("Choose a password (8+ characters): ")
	if err != nil {
		return errors.Wrap(err, "failed to read password")
	}

	token, err := NewClientWithURL(server).Register(cmd.Context(), loginEmail, password, registerName)
	if err != nil {
		return errors.Wrap(err, "registration failed")
	}
	return saveAndReport(server, token)
}

func saveAndReport(server, token string) error {
	if err := SaveSession(Session{Server: server, Email: loginEmail, Token: token}); err != nil {
		return errors.Wrap(err, "failed to save session")
	}
	fmt.Fprintf(os.Stderr, "Logged in as %s\n", loginEmail)
	return nil
}

// readPassword prompts for a password without echoing input.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Piped input
	var password string
	if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
		return "", err
	}
	return password, nil
}
