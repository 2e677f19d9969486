package browser

import (
	"runtime"
	"strings"
	"testing"
)

func stubStart(t *testing.T) *[]string {
	t.Helper()
	var calls []string
	orig := start
	start = func(name string, args ...string) error {
		calls = append(calls, name+" "+strings.Join(args, " "))
		return nil
	}
	t.Cleanup(func() { start = orig })
	return &calls
}

func TestOpenRejectsNonWebURLs(t *testing.T) {
	calls := stubStart(t)
	for _, u := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "https://", "not a url"} {
		if err := Open(u); err == nil {
			t.Errorf("Open(%q) should fail", u)
		}
	}
	if len(*calls) != 0 {
		t.Errorf("nothing should be launched, got %v", *calls)
	}
}

func TestOpenLaunchesOpener(t *testing.T) {
	if _, _, err := command(runtime.GOOS, ""); err != nil {
		t.Skipf("no opener on %s", runtime.GOOS)
	}
	calls := stubStart(t)
	if err := Open("https://medicare.example.com/support"); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if len(*calls) != 1 || !strings.HasSuffix((*calls)[0], "https://medicare.example.com/support") {
		t.Errorf("calls = %v", *calls)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos    string
		want    string
		wantErr bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"windows", "rundll32", false},
		{"plan9", "", true},
	}
	for _, tt := range tests {
		name, _, err := command(tt.goos, "https://x.test")
		if (err != nil) != tt.wantErr {
			t.Errorf("command(%s) err = %v", tt.goos, err)
		}
		if name != tt.want {
			t.Errorf("command(%s) = %q, want %q", tt.goos, name, tt.want)
		}
	}
}
