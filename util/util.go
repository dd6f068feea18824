package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
)

const appName = "albumfix"

var illegalFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// ErrWrap returns a function that discards the error
// of a (value, error) pair, falling back to def
// whenever the error is set:
// > util.ErrWrap("x")(cmd.Flags().GetString("flag"))
func ErrWrap[T any](def T) func(T, error) T {
	return func(value T, err error) T {
		if err != nil {
			return def
		}
		return value
	}
}

// ErrSuppress explicitly drops an error nobody is interested in.
func ErrSuppress(_ error) {}

func Ptr[T any](value T) *T {
	return &value
}

// LegalizeFilename removes every character that is not
// allowed in a file name on at least one of the supported platforms
func LegalizeFilename(name string) string {
	return illegalFilenameChars.ReplaceAllString(name, "")
}

func CacheDir() string {
	return filepath.Join(xdg.CacheHome, appName)
}

func CacheFile(name string) string {
	return filepath.Join(CacheDir(), name)
}

// ExecutableDir returns the directory holding the running binary,
// falling back to the working directory when it cannot be determined.
func ExecutableDir() string {
	path, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return filepath.Dir(path)
}

func HumanizeBytes(bytes int) string {
	const unit = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "kMGTPE"[exp])
}

// Excerpt returns the first line of a text,
// truncated to a reasonable length for one-line output
func Excerpt(text string, length ...int) string {
	limit := 40
	if len(length) > 0 {
		limit = length[0]
	}
	text = strings.TrimSpace(strings.Split(text, "\n")[0])
	if runes := []rune(text); len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return text
}
