package upstream

import (
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/keyboardinstall/internal/services/install/platform/errors"
	"github.com/louisbranch/keyboardinstall/internal/services/install/request"
)

// PageState aggregates everything loaded for one install page request.
// It lives for a single request and is never shared.
type PageState struct {
	Params    request.Params
	Keyboard  *KeyboardMetadata
	Downloads *DownloadInfo
	Versions  *VersionInfo
	Title     string

	status      int
	errs        []error
	diagnostics strings.Builder
}

// NewPageState returns an empty state for params.
func NewPageState(params request.Params) *PageState {
	return &PageState{Params: params}
}

// Status is the HTTP status suggested by the loader. The first
// status-setting failure in fetch order wins; otherwise 200.
func (s *PageState) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// Found reports whether both keyboard metadata and downloads were loaded.
func (s *PageState) Found() bool {
	return s.Keyboard != nil && s.Downloads != nil
}

// Diagnostics returns the accumulated upstream error text, one line per
// failure.
func (s *PageState) Diagnostics() string {
	return s.diagnostics.String()
}

// Err joins every upstream failure recorded during load.
func (s *PageState) Err() error {
	return errors.Join(s.errs...)
}

// KeyboardID is the keyboard id reported by metadata, falling back to the
// requested id.
func (s *PageState) KeyboardID() string {
	if s.Keyboard != nil && s.Keyboard.ID != "" {
		return s.Keyboard.ID
	}
	return s.Params.ID
}

// KeyboardName is the metadata display name, falling back to the id.
func (s *PageState) KeyboardName() string {
	if s.Keyboard != nil && s.Keyboard.Name != "" {
		return s.Keyboard.Name
	}
	return s.KeyboardID()
}

// record appends err to the diagnostics. Unless force is set, the fallback
// title and status apply only while no title has been chosen.
func (s *PageState) record(err error, title string, force bool) {
	s.errs = append(s.errs, err)
	s.diagnostics.WriteString(err.Error())
	s.diagnostics.WriteString("\n")
	if !force && s.Title != "" {
		return
	}
	s.Title = title
	if s.status == 0 {
		s.status = apperrors.HTTPStatus(err)
	}
}

func keyboardTitle(name string) string {
	if strings.HasSuffix(strings.ToLower(name), "keyboard") {
		return name
	}
	return name + " keyboard"
}
