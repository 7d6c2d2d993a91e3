package izone

// Endpoints used by [DefaultWidgets].
const (
	CryptoURL   = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin,ethereum&vs_currencies=usd"
	ExchangeURL = "https://api.frankfurter.app/latest?from=USD"
	ReposURL    = "https://api.github.com/search/repositories?q=stars:>10000&sort=stars&order=desc&per_page=5"
)

// DefaultWidgets returns the stock dashboard: crypto prices, USD exchange
// rates and trending GitHub repositories, all from public APIs that need no
// key.
func DefaultWidgets() []Widget {
	return []Widget{
		mustWidget(KindCrypto, "Crypto Prices", CryptoURL,
			WithIcon("₿"),
			WithDescription("Get current BTC & ETH prices in USD (CoinGecko public API)"),
		),
		mustWidget(KindExchange, "Exchange Rates", ExchangeURL,
			WithIcon("💱"),
			WithDescription("Get latest USD exchange rates (Frankfurter public API)"),
		),
		mustWidget(KindRepos, "Trending GitHub Repos", ReposURL,
			WithIcon("🔥"),
			WithDescription("Get trending GitHub repos with >10,000 stars (GitHub REST API)"),
		),
	}
}

// mustWidget builds a widget from constant arguments and panics if they are
// invalid.
func mustWidget(kind Kind, title, rawURL string, opts ...WidgetOption) Widget {
	w, err := NewWidget(kind, title, rawURL, opts...)
	if err != nil {
		panic("izone: invalid built-in widget: " + err.Error())
	}
	return w
}

// DefaultWidget returns the built-in widget for kind.
func DefaultWidget(kind Kind) (Widget, bool) {
	for _, w := range DefaultWidgets() {
		if w.kind == kind {
			return w, true
		}
	}
	return Widget{}, false
}
