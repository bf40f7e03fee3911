package page

import "fmt"

// Platform is a target platform with its own download box. Boxes render in
// declaration order.
type Platform int

const (
	Windows Platform = iota
	MacOS
	Linux
	IPhone
	IPad
	Android
)

// Platforms returns every platform in render order.
func Platforms() []Platform {
	return []Platform{Windows, MacOS, Linux, IPhone, IPad, Android}
}

// SupportKey is the platformSupport key and download endpoint platform name.
// iPhone and iPad share the ios key.
func (p Platform) SupportKey() string {
	switch p {
	case Windows:
		return "windows"
	case MacOS:
		return "macos"
	case Linux:
		return "linux"
	case IPhone, IPad:
		return "ios"
	case Android:
		return "android"
	default:
		return ""
	}
}

// Label is the human-readable platform name.
func (p Platform) Label() string {
	switch p {
	case Windows:
		return "Windows"
	case MacOS:
		return "macOS"
	case Linux:
		return "Linux"
	case IPhone:
		return "iPhone"
	case IPad:
		return "iPad"
	case Android:
		return "Android"
	default:
		return ""
	}
}

// ProductName is the name of the app a keyboard package installs into.
func (p Platform) ProductName() string {
	return "Keyman for " + p.Label()
}

// VersionKey is the platform key used by the product version API.
func (p Platform) VersionKey() string {
	switch p {
	case MacOS:
		return "mac"
	default:
		return p.SupportKey()
	}
}

func (p Platform) String() string {
	if label := p.Label(); label != "" {
		return label
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}

// Products locates the installers and help pages the download boxes link to.
type Products struct {
	// DownloadsHost serves Windows bundled installers.
	DownloadsHost string
	// HelpHost serves product documentation.
	HelpHost string

	MacDownloadURL  string
	LinuxInstallURL string
	PlayStoreURL    string
	AppStoreURL     string
}

// InstallerURL is where the product for p is installed from.
func (pr Products) InstallerURL(p Platform) string {
	switch p {
	case MacOS:
		return pr.MacDownloadURL
	case Linux:
		return pr.LinuxInstallURL
	case IPhone, IPad:
		return pr.AppStoreURL
	case Android:
		return pr.PlayStoreURL
	default:
		return ""
	}
}

// WindowsHelpURL is the install walkthrough for the Windows bundled installer.
func (pr Products) WindowsHelpURL() string {
	return pr.HelpHost + "/products/desktop/current-version/docs/start_download-install_keyman"
}
