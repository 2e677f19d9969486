package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// start launches the opener. Tests replace it.
var start = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open opens the specified http(s) URL in the user's default browser.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser.Open: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser.Open: refusing to open %q", rawURL)
	}

	name, args, err := command(runtime.GOOS, u.String())
	if err != nil {
		return fmt.Errorf("browser.Open: %w", err)
	}
	return start(name, args...)
}

func command(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported OS: %s", goos)
	}
}
