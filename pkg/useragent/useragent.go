package useragent

import (
	"runtime/debug"
	"strings"
	"unicode"
)

// Info describes the client announced to upstream services. Public directories
// ask for a speaking User-Agent so operators can reach whoever is polling them.
type Info struct {
	Name    string
	Version string
	Contact string // URL or e-mail
}

// Default is the identity used when nothing is configured.
var Default = Info{
	Name:    "airwave",
	Version: "",
	Contact: "https://github.com/FranksOps/airwave",
}

// String renders the identity as "name/version (+contact)".
func (i Info) String() string {
	name := clean(i.Name)
	if name == "" {
		name = Default.Name
	}

	version := clean(i.Version)
	if version == "" {
		version = buildVersion()
	}

	ua := name + "/" + version
	if contact := clean(i.Contact); contact != "" {
		ua += " (+" + contact + ")"
	}
	return ua
}

// Sanitize returns ua stripped of control characters, or the default identity
// when nothing printable is left.
func Sanitize(ua string) string {
	ua = strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ua))
	if ua == "" {
		return Default.String()
	}
	return ua
}

func clean(s string) string {
	return strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == '(' || r == ')' || r == '/' {
			return ' '
		}
		return r
	}, s)), "-")
}

func buildVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}
	return "dev"
}
