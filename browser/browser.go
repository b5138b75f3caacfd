// Package browser knows where Chromium-family browsers keep the History
// database of their default profile.
package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrUnknownBrowser is returned by Lookup for an unrecognised id.
var ErrUnknownBrowser = errors.New("browser: unknown browser")

// Browser identifies a Chromium-family browser and its per-OS user data
// directories, relative to the platform's application data root.
type Browser struct {
	ID   string
	Name string

	windows string
	darwin  string
	linux   string
}

var (
	Chrome = Browser{
		ID: "chrome", Name: "Chrome",
		windows: `Google\Chrome\User Data`,
		darwin:  "Google/Chrome",
		linux:   "google-chrome",
	}
	Edge = Browser{
		ID: "edge", Name: "Edge",
		windows: `Microsoft\Edge\User Data`,
		darwin:  "Microsoft Edge",
		linux:   "microsoft-edge",
	}
	Chromium = Browser{
		ID: "chromium", Name: "Chromium",
		windows: `Chromium\User Data`,
		darwin:  "Chromium",
		linux:   "chromium",
	}
	Brave = Browser{
		ID: "brave", Name: "Brave",
		windows: `BraveSoftware\Brave-Browser\User Data`,
		darwin:  "BraveSoftware/Brave-Browser",
		linux:   "BraveSoftware/Brave-Browser",
	}
)

// Defaults are the browsers checked when none are configured.
var Defaults = []string{Chrome.ID, Edge.ID}

// All returns every known browser.
func All() []Browser { return []Browser{Chrome, Edge, Chromium, Brave} }

// Lookup finds a browser by id, case-insensitively.
func Lookup(id string) (Browser, error) {
	for _, b := range All() {
		if strings.EqualFold(b.ID, id) {
			return b, nil
		}
	}
	return Browser{}, fmt.Errorf("%w: %q", ErrUnknownBrowser, id)
}

// HistoryPath returns the Default profile's History file for b on goos, with
// home as the user's profile directory. Paths are joined with the target
// platform's separator regardless of the running platform.
func HistoryPath(b Browser, goos, home string) (string, error) {
	if home == "" {
		return "", errors.New("browser: empty home directory")
	}
	switch goos {
	case "windows":
		parts := []string{strings.TrimRight(home, `\/`), "AppData", "Local", b.windows, "Default", "History"}
		return strings.Join(parts, `\`), nil
	case "darwin":
		return joinSlash(home, "Library", "Application Support", b.darwin, "Default", "History"), nil
	default:
		return joinSlash(home, ".config", b.linux, "Default", "History"), nil
	}
}

func joinSlash(elem ...string) string {
	return filepath.ToSlash(filepath.Join(elem...))
}

// DefaultHistoryPath is HistoryPath for the running OS and user.
func DefaultHistoryPath(b Browser) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("browser: home directory: %w", err)
	}
	p, err := HistoryPath(b, runtime.GOOS, home)
	if err != nil {
		return "", err
	}
	return filepath.FromSlash(p), nil
}
