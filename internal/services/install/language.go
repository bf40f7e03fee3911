package install

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// supportedLangs are the page UI languages. The first entry is the default.
var supportedLangs = []language.Tag{
	language.English,
}

var langMatcher = language.NewMatcher(supportedLangs)

// resolveLang picks the page language from Accept-Language.
func resolveLang(r *http.Request) string {
	if r == nil {
		return supportedLangs[0].String()
	}
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return supportedLangs[0].String()
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return supportedLangs[0].String()
	}
	_, idx, _ := langMatcher.Match(tags...)
	return supportedLangs[idx].String()
}
