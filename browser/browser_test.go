package browser

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistoryPath(t *testing.T) {
	tests := []struct {
		b    Browser
		goos string
		home string
		want string
	}{
		{Chrome, "windows", `C:\Users\ann`, `C:\Users\ann\AppData\Local\Google\Chrome\User Data\Default\History`},
		{Edge, "windows", `C:\Users\ann\`, `C:\Users\ann\AppData\Local\Microsoft\Edge\User Data\Default\History`},
		{Brave, "windows", `D:\home`, `D:\home\AppData\Local\BraveSoftware\Brave-Browser\User Data\Default\History`},
		{Chrome, "darwin", "/Users/ann", "/Users/ann/Library/Application Support/Google/Chrome/Default/History"},
		{Edge, "darwin", "/Users/ann", "/Users/ann/Library/Application Support/Microsoft Edge/Default/History"},
		{Chrome, "linux", "/home/ann", "/home/ann/.config/google-chrome/Default/History"},
		{Chromium, "freebsd", "/home/ann", "/home/ann/.config/chromium/Default/History"},
		{Brave, "linux", "/home/ann", "/home/ann/.config/BraveSoftware/Brave-Browser/Default/History"},
	}
	for _, tt := range tests {
		t.Run(tt.b.ID+"/"+tt.goos, func(t *testing.T) {
			got, err := HistoryPath(tt.b, tt.goos, tt.home)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("HistoryPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHistoryPath_EmptyHome(t *testing.T) {
	if _, err := HistoryPath(Chrome, "linux", ""); err == nil {
		t.Fatal("expected error for empty home")
	}
}

func TestLookup(t *testing.T) {
	for _, b := range All() {
		got, err := Lookup(strings.ToUpper(b.ID))
		if err != nil {
			t.Fatalf("Lookup(%s): %v", b.ID, err)
		}
		if got.Name != b.Name {
			t.Fatalf("Lookup(%s).Name = %s", b.ID, got.Name)
		}
	}
	if _, err := Lookup("netscape"); !errors.Is(err, ErrUnknownBrowser) {
		t.Fatalf("err = %v, want ErrUnknownBrowser", err)
	}
}

func TestDefaults(t *testing.T) {
	if len(Defaults) != 2 || Defaults[0] != "chrome" || Defaults[1] != "edge" {
		t.Fatalf("Defaults = %v", Defaults)
	}
}

func TestDefaultHistoryPath(t *testing.T) {
	t.Setenv("HOME", "/tmp/fakehome")
	t.Setenv("USERPROFILE", `C:\fakehome`)
	p, err := DefaultHistoryPath(Chrome)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(p) != "History" || filepath.Base(filepath.Dir(p)) != "Default" {
		t.Fatalf("DefaultHistoryPath = %s", p)
	}
}
