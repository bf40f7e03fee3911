package request

import (
	"regexp"
	"strings"
)

// Grammar from RFC 5646 section 2.1, including the grandfathered tags of
// section 2.2.8. The whole input must match one of the two alternatives.
var bcp47Pattern = regexp.MustCompile(`(?i)^(?:` + bcp47Grandfathered + `|` + bcp47LangTag + `)$`)

var bcp47Grandfathered = strings.Join([]string{
	`(?P<grandfathered>`,
	`(?:en-GB-oed|i-(?:ami|bnn|default|enochian|hak|klingon|lux|mingo|navajo|pwn|t(?:a[oy]|su))|sgn-(?:BE-(?:FR|NL)|CH-DE))`,
	`|(?:art-lojban|cel-gaulish|no-(?:bok|nyn)|zh-(?:guoyu|hakka|min(?:-nan)?|xiang))`,
	`)`,
}, "")

var bcp47LangTag = strings.Join([]string{
	`(?:`,
	`(?P<language>(?:[A-Za-z]{2,3}(?:-(?P<extlang>[A-Za-z]{3}(?:-[A-Za-z]{3}){0,2}))?)|[A-Za-z]{4}|[A-Za-z]{5,8})`,
	`(?:-(?P<script>[A-Za-z]{4}))?`,
	`(?:-(?P<region>[A-Za-z]{2}|[0-9]{3}))?`,
	`(?:-(?P<variant>[A-Za-z0-9]{5,8}|[0-9][A-Za-z0-9]{3}))*`,
	`(?:-(?P<extension>[0-9A-WY-Za-wy-z](?:-[A-Za-z0-9]{2,8})+))*`,
	`)`,
	`(?:-(?P<privateUse>x(?:-[A-Za-z0-9]{1,8})+))?`,
}, "")
