package install

import (
	"bytes"
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/louisbranch/keyboardinstall/internal/services/install/page"
	apperrors "github.com/louisbranch/keyboardinstall/internal/services/install/platform/errors"
	"github.com/louisbranch/keyboardinstall/internal/services/install/platform/httpx"
	"github.com/louisbranch/keyboardinstall/internal/services/install/request"
	"github.com/louisbranch/keyboardinstall/internal/services/install/upstream"
)

// Loader loads the data behind one install page.
type Loader interface {
	Load(ctx context.Context, params request.Params) *upstream.PageState
}

// handler serves the install page: validate, load, render.
type handler struct {
	loader Loader
	page   page.Options
	log    *zap.SugaredLogger
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := request.ParseParams(r)
	state := h.loader.Load(httpx.RequestContext(r), params)
	if err := state.Err(); err != nil {
		h.log.Infow("install page loaded with upstream failures",
			"id", params.ID, "status", state.Status(), "request_id", httpx.RequestIDFrom(r), "error", err)
	}

	opts := h.page
	opts.Lang = resolveLang(r)

	var buf bytes.Buffer
	if err := page.Page(state, opts).Render(r.Context(), &buf); err != nil {
		h.log.Errorw("render install page", "id", params.ID, "request_id", httpx.RequestIDFrom(r), "error", err)
		httpx.WriteError(w, apperrors.Wrap(apperrors.KindUnknown, "failed to render page", err))
		return
	}
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(state.Status())
		return
	}
	if err := httpx.WriteHTML(w, state.Status(), buf.Bytes()); err != nil {
		h.log.Debugw("write install page", "request_id", httpx.RequestIDFrom(r), "error", err)
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteText(w, http.StatusOK, "ok\n")
}
