// Package page renders the keyboard install page: chrome, title and one
// download box per platform. The markup lives in install.templ; run
// `templ generate` after editing it.
package page

import (
	"net/url"
	"strings"

	"github.com/louisbranch/keyboardinstall/internal/platform/assets"
	"github.com/louisbranch/keyboardinstall/internal/services/install/request"
	"github.com/louisbranch/keyboardinstall/internal/services/install/upstream"
)

// DefaultLang is used when no page language was resolved.
const DefaultLang = "en"

// windowsAutoDownloadDelayMillis is how long the Windows box waits before
// navigating to the installer.
const windowsAutoDownloadDelayMillis = 1000

var (
	stylesheets = []string{"css/template.css", "keyboard-search/search.css", "keyboard-search/install.css"}
	scripts     = []string{"keyboard-search/keyboard-details.js"}
)

// Options carries everything the renderer needs besides the page state.
type Options struct {
	Products Products
	Assets   assets.CDN
	// ShowDiagnostics exposes upstream error text on the not-found page. Only
	// development deployments with error display enabled should set it.
	ShowDiagnostics bool
	Lang            string
}

func pageLang(opts Options) string {
	if opts.Lang == "" {
		return DefaultLang
	}
	return opts.Lang
}

func headTitle(state *upstream.PageState) string {
	if state.Title != "" {
		return state.Title
	}
	return "Install keyboard"
}

func hasPackage(state *upstream.PageState) bool {
	_, ok := state.Downloads.KMP()
	return ok
}

func keyboardHomeURL(state *upstream.PageState) string {
	return "/keyboards/" + url.PathEscape(state.KeyboardID())
}

// DownloadURL is the standalone package download link for the keyboard on
// platform. Every parameter is query-escaped.
func DownloadURL(params request.Params, platform Platform) string {
	var b strings.Builder
	b.WriteString("/keyboard/download?id=")
	b.WriteString(url.QueryEscape(params.ID))
	b.WriteString("&platform=")
	b.WriteString(url.QueryEscape(platform.SupportKey()))
	b.WriteString("&mode=standalone")
	if params.HasTag() {
		b.WriteString("&tag=")
		b.WriteString(url.QueryEscape(params.Tag))
	}
	return b.String()
}

// WindowsInstallerURL is the bundled installer for the keyboard at version.
func WindowsInstallerURL(downloadsHost string, params request.Params, keyboardID, version string) string {
	suffix := ""
	if params.HasTag() {
		suffix = "." + url.PathEscape(params.Tag)
	}
	return strings.TrimRight(downloadsHost, "/") + "/windows/" + string(params.Tier) + "/" + url.PathEscape(version) +
		"/keyman-setup." + url.PathEscape(keyboardID) + suffix + ".exe"
}

// windowsInstaller is the bundled installer URL for the requested tier, or
// empty when no Windows version is published for it.
func windowsInstaller(state *upstream.PageState, products Products) string {
	version, ok := state.Versions.Version(Windows.VersionKey(), state.Params.Tier)
	if !ok {
		return ""
	}
	return WindowsInstallerURL(products.DownloadsHost, state.Params, state.KeyboardID(), version)
}
