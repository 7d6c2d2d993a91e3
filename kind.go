package izone

import (
	"fmt"
	"strings"

	"github.com/jpalmerr/izone/internal/render"
)

// Kind identifies which payload shape a widget expects and how its tile is
// drawn.
type Kind string

const (
	// KindCrypto expects {"bitcoin":{"usd":N},"ethereum":{"usd":N}}.
	KindCrypto Kind = render.KindCrypto

	// KindExchange expects {"rates":{"EUR":N,...}}.
	KindExchange Kind = render.KindExchange

	// KindRepos expects {"items":[{"full_name":...,"stargazers_count":N},...]}.
	KindRepos Kind = render.KindRepos
)

// kindAliases maps accepted spellings to kinds. "github" is the older name
// for repos.
var kindAliases = map[string]Kind{
	"crypto":   KindCrypto,
	"exchange": KindExchange,
	"repos":    KindRepos,
	"github":   KindRepos,
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCrypto, KindExchange, KindRepos:
		return true
	default:
		return false
	}
}

// ParseKind returns the kind named by s, ignoring case and surrounding
// whitespace. "github" is accepted as an alias for [KindRepos].
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown widget kind %q (want crypto, exchange or repos)", s)
	}
	return k, nil
}

// defaultTitle is the tile title used when a widget is created without one.
func (k Kind) defaultTitle() string {
	switch k {
	case KindCrypto:
		return "Crypto Prices"
	case KindExchange:
		return "Exchange Rates"
	case KindRepos:
		return "Trending GitHub Repos"
	default:
		return string(k)
	}
}
