package upstream

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/louisbranch/keyboardinstall/internal/services/install/request"
)

// SupportNone is the platform support level meaning "not supported".
const SupportNone = "none"

// KeyboardMetadata is the keyboard record served by the metadata API.
type KeyboardMetadata struct {
	ID              string
	Name            string
	PlatformSupport map[string]string
}

// Supports reports whether platform has a support level other than "none".
func (k *KeyboardMetadata) Supports(platform string) bool {
	if k == nil {
		return false
	}
	level, ok := k.PlatformSupport[platform]
	return ok && level != SupportNone
}

func keyboardFromJSON(doc gjson.Result) *KeyboardMetadata {
	keyboard := &KeyboardMetadata{
		ID:              doc.Get("id").String(),
		Name:            doc.Get("name").String(),
		PlatformSupport: map[string]string{},
	}
	doc.Get("platformSupport").ForEach(func(platform, level gjson.Result) bool {
		// A null level is the same as no entry.
		if level.Type == gjson.Null {
			return true
		}
		keyboard.PlatformSupport[platform.String()] = level.String()
		return true
	})
	return keyboard
}

// DownloadInfo is the keyboard downloads record for one tier. Its shape is
// not validated when loaded.
type DownloadInfo struct {
	doc gjson.Result
}

// NewDownloadInfo wraps a raw downloads API payload.
func NewDownloadInfo(raw string) *DownloadInfo {
	return &DownloadInfo{doc: gjson.Parse(raw)}
}

// KMP returns the package artifact path when the record carries one.
func (d *DownloadInfo) KMP() (string, bool) {
	if d == nil {
		return "", false
	}
	kmp := d.doc.Get("kmp")
	if !kmp.Exists() || kmp.Type == gjson.Null {
		return "", false
	}
	value := kmp.String()
	return value, value != ""
}

// PackageFilename returns the last path segment of the kmp artifact path.
func (d *DownloadInfo) PackageFilename() string {
	kmp, ok := d.KMP()
	if !ok {
		return ""
	}
	if idx := strings.LastIndex(kmp, "/"); idx >= 0 {
		return kmp[idx+1:]
	}
	return kmp
}

// VersionInfo is the product version record, keyed by platform then tier.
type VersionInfo struct {
	doc gjson.Result
}

// NewVersionInfo wraps a raw version API payload.
func NewVersionInfo(raw string) *VersionInfo {
	return &VersionInfo{doc: gjson.Parse(raw)}
}

// Version returns the released product version for platform on tier.
func (v *VersionInfo) Version(platform string, tier request.Tier) (string, bool) {
	if v == nil {
		return "", false
	}
	value := v.doc.Get(gjson.Escape(platform)).Get(gjson.Escape(string(tier)))
	if !value.Exists() || value.Type == gjson.Null {
		return "", false
	}
	version := strings.TrimSpace(value.String())
	return version, version != ""
}
