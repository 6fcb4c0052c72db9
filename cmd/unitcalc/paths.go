package main

import (
	"errors"
	"os"
	"path/filepath"
)

// errNoHome is reported when no home directory can be found to place the
// config, state, or cache directories under.
var errNoHome = errors.New("unable to find home directory")

// configDir resolves the configuration directory: $UNITCALC_CONFIG_DIR,
// else $XDG_CONFIG_HOME/unitcalc, else ~/.config/unitcalc.
func configDir() (string, error) {
	return lookupDir("UNITCALC_CONFIG_DIR", "XDG_CONFIG_HOME", ".config")
}

// stateDir resolves the state directory, which holds the history file:
// $UNITCALC_STATE_DIR, else $XDG_STATE_HOME/unitcalc, else
// ~/.local/state/unitcalc.
func stateDir() (string, error) {
	return lookupDir("UNITCALC_STATE_DIR", "XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// cacheDir resolves the cache directory: $UNITCALC_CACHE_DIR, else
// $XDG_CACHE_HOME/unitcalc, else ~/.cache/unitcalc.
func cacheDir() (string, error) {
	return lookupDir("UNITCALC_CACHE_DIR", "XDG_CACHE_HOME", ".cache")
}

func lookupDir(envdir, xdg, home string) (string, error) {
	if d := os.Getenv(envdir); d != "" {
		return d, nil
	}
	if d := os.Getenv(xdg); d != "" {
		return filepath.Join(d, "unitcalc"), nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", errNoHome
	}
	return filepath.Join(h, home, "unitcalc"), nil
}

// configPath is the location of the YAML configuration file.
func configPath() (string, error) {
	d, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// historyPath is the location of the REPL history file, creating the state
// directory if needed.
func historyPath() (string, error) {
	d, err := stateDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(d, "history"), nil
}
