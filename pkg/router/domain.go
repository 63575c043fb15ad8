package router

import (
	"fmt"
	"regexp"
	"strings"
)

var domainParamRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_-]*)\}`)

// CompileDomain turns "{sub}.example.com" into a case-insensitive, anchored
// regex with named captures (§4.5 Domain compilation).
func CompileDomain(domain string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	last := 0
	for _, m := range domainParamRe.FindAllStringSubmatchIndex(domain, -1) {
		b.WriteString(regexp.QuoteMeta(domain[last:m[0]]))
		name := domain[m[2]:m[3]]
		fmt.Fprintf(&b, `(?P<%s>[\w\-.]+)`, name)
		last = m[1]
	}
	b.WriteString(regexp.QuoteMeta(domain[last:]))
	b.WriteString("$")
	return regexp.Compile(b.String())
}
