package upstream

import (
	"net/http"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/louisbranch/keyboardinstall/internal/services/install/request"
)

func TestKeyboardSupports(t *testing.T) {
	t.Parallel()

	keyboard := keyboardFromJSON(gjson.Parse(`{"platformSupport":{"windows":"none","macos":"full","linux":"basic"}}`))
	tests := map[string]bool{
		"windows": false,
		"macos":   true,
		"linux":   true,
		"android": false,
	}
	for platform, want := range tests {
		if got := keyboard.Supports(platform); got != want {
			t.Fatalf("Supports(%q) = %t, want %t", platform, got, want)
		}
	}

	var missing *KeyboardMetadata
	if missing.Supports("macos") {
		t.Fatal("nil keyboard Supports() = true, want false")
	}
}

func TestKeyboardSupportsNullLevel(t *testing.T) {
	t.Parallel()

	keyboard := keyboardFromJSON(gjson.Parse(`{"platformSupport":{"macos":null,"linux":false}}`))
	if keyboard.Supports("macos") {
		t.Fatal("Supports(\"macos\") with null level = true, want false")
	}
	if !keyboard.Supports("linux") {
		t.Fatal("Supports(\"linux\") with false level = false, want true")
	}
}

func TestDownloadInfoKMP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw      string
		wantKMP  string
		wantOK   bool
		filename string
	}{
		{raw: `{"kmp":"https://example.com/path/to/mykeyboard.kmp"}`, wantKMP: "https://example.com/path/to/mykeyboard.kmp", wantOK: true, filename: "mykeyboard.kmp"},
		{raw: `{"kmp":"bare.kmp"}`, wantKMP: "bare.kmp", wantOK: true, filename: "bare.kmp"},
		{raw: `{"kmp":null}`},
		{raw: `{"kmp":""}`},
		{raw: `{"js":"keyboard.js"}`},
		{raw: `[]`},
	}
	for _, tc := range tests {
		info := NewDownloadInfo(tc.raw)
		kmp, ok := info.KMP()
		if kmp != tc.wantKMP || ok != tc.wantOK {
			t.Fatalf("KMP(%s) = %q, %t, want %q, %t", tc.raw, kmp, ok, tc.wantKMP, tc.wantOK)
		}
		if got := info.PackageFilename(); got != tc.filename {
			t.Fatalf("PackageFilename(%s) = %q, want %q", tc.raw, got, tc.filename)
		}
	}

	var missing *DownloadInfo
	if _, ok := missing.KMP(); ok {
		t.Fatal("nil downloads KMP() ok = true, want false")
	}
}

func TestVersionInfoVersion(t *testing.T) {
	t.Parallel()

	versions := NewVersionInfo(`{"windows":{"stable":"17.0.326","alpha":null,"beta":" "}}`)
	if got, ok := versions.Version("windows", request.TierStable); !ok || got != "17.0.326" {
		t.Fatalf("Version(windows, stable) = %q, %t", got, ok)
	}
	for _, tier := range []request.Tier{request.TierAlpha, request.TierBeta} {
		if got, ok := versions.Version("windows", tier); ok {
			t.Fatalf("Version(windows, %s) = %q, want absent", tier, got)
		}
	}
	if _, ok := versions.Version("android", request.TierStable); ok {
		t.Fatal("Version(android, stable) ok = true, want false")
	}

	var missing *VersionInfo
	if _, ok := missing.Version("windows", request.TierStable); ok {
		t.Fatal("nil versions Version() ok = true, want false")
	}
}

func TestPageStateFallbacks(t *testing.T) {
	t.Parallel()

	state := NewPageState(request.Params{ID: "requested_id", Tier: request.TierStable})
	if state.Status() != http.StatusOK {
		t.Fatalf("Status() = %d, want %d", state.Status(), http.StatusOK)
	}
	if state.KeyboardID() != "requested_id" || state.KeyboardName() != "requested_id" {
		t.Fatalf("KeyboardID/Name = %q/%q, want requested id", state.KeyboardID(), state.KeyboardName())
	}
	state.Keyboard = &KeyboardMetadata{ID: "canonical_id", Name: "Canonical"}
	if state.KeyboardID() != "canonical_id" || state.KeyboardName() != "Canonical" {
		t.Fatalf("KeyboardID/Name = %q/%q", state.KeyboardID(), state.KeyboardName())
	}
}

func TestKeyboardTitle(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Khmer Angkor":       "Khmer Angkor keyboard",
		"Basic Keyboard":     "Basic Keyboard",
		"sil_ipa keyboard":   "sil_ipa keyboard",
		"Keyboards Galore":   "Keyboards Galore keyboard",
		"":                   " keyboard",
		"Amharic <Ethiopic>": "Amharic <Ethiopic> keyboard",
	}
	for name, want := range tests {
		if got := keyboardTitle(name); got != want {
			t.Fatalf("keyboardTitle(%q) = %q, want %q", name, got, want)
		}
	}
}
