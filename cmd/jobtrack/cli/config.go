package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	configDir   = ".jobtrack"
	sessionFile = "session.json"

	// envHome overrides the directory holding the session file.
	envHome = "JOBTRACK_HOME"
)

// ErrNotLoggedIn is returned when no usable session is stored.
var ErrNotLoggedIn = errors.New("not logged in. Run 'jobtrack login' first")

// Session is the server and token saved by login.
type Session struct {
	Server string `json:"server"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func configDirPath() (string, error) {
	if dir := os.Getenv(envHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	return filepath.Join(home, configDir), nil
}

// SaveSession writes s to the session file with 0600 permissions.
func SaveSession(s Session) error {
	dir, err := configDirPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "cannot create config directory %s", dir)
	}

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot marshal session")
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.WriteFile(path, b, 0600); err != nil {
		return errors.Wrapf(err, "cannot write session file %s", path)
	}
	return nil
}

// LoadSession reads the stored session.
func LoadSession() (Session, error) {
	dir, err := configDirPath()
	if err != nil {
		return Session{}, err
	}

	b, err := os.ReadFile(filepath.Join(dir, sessionFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNotLoggedIn
		}
		return Session{}, errors.Wrap(err, "cannot read session file")
	}

	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, errors.Wrap(err, "corrupt session file")
	}
	if s.Token == "" || s.Server == "" {
		return Session{}, ErrNotLoggedIn
	}
	return s, nil
}
