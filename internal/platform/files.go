package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Command constants
const (
	OpenCommand    = "open"
	XDGOpenCommand = "xdg-open"
	RundllCommand  = "rundll32"
	RundllHandler  = "url.dll,FileProtocolHandler"
	AndroidAM      = "am"
)

// Linux browsers tried when xdg-open is unavailable
var (
	LinuxBrowsers = []string{"sensible-browser", "firefox", "chromium", "google-chrome"}
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// EnsureParentDir creates the directory that will hold filePath
func EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "" || dir == "." {
		return nil
	}
	return CreateDirectoryIfNotExists(dir)
}

// IsAndroid reports whether the process runs on Android
func IsAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != "" ||
		filepath.Base(os.Args[0]) == "libdist.so" // Fyne Android apps run as libdist.so
}

// GetHomeDir returns the directory file dialogs start in
func GetHomeDir() (string, error) {
	if IsAndroid() {
		return "/sdcard", nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return homeDir, nil
}

// OpenURL opens target in the system browser
func OpenURL(target string) error {
	if target == "" {
		return fmt.Errorf("url is empty")
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, target).Start()
	case OSWindows:
		return exec.Command(RundllCommand, RundllHandler, target).Start()
	case OSLinux:
		return openURLLinux(target)
	case OSAndroid:
		return exec.Command(AndroidAM, "start", "-a", "android.intent.action.VIEW", "-d", target).Start()
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openURLLinux tries xdg-open, then a list of known browsers
func openURLLinux(target string) error {
	if _, err := exec.LookPath(XDGOpenCommand); err == nil {
		return exec.Command(XDGOpenCommand, target).Start()
	}

	for _, browser := range LinuxBrowsers {
		if _, err := exec.LookPath(browser); err == nil {
			return exec.Command(browser, target).Start()
		}
	}

	return fmt.Errorf("no suitable browser found")
}
