package render

import (
	"github.com/jpalmerr/izone/internal/store"
)

// Widget kinds understood by the renderer.
const (
	KindCrypto   = "crypto"
	KindExchange = "exchange"
	KindRepos    = "repos"
)

// placeholder is shown for any value missing from a payload.
const placeholder = "-"

// repoSampleSize is how many repositories a repos tile shows.
const repoSampleSize = 2

// exchangeCurrencies are the rows of an exchange tile, in display order.
var exchangeCurrencies = []string{"EUR", "GBP", "JPY", "INR", "ZAR"}

// TileState selects which body a tile shows.
type TileState string

const (
	TileEmpty   TileState = "empty"
	TileLoading TileState = "loading"
	TileError   TileState = "error"
	TileReady   TileState = "ready"
)

// Price is one row of a crypto tile.
type Price struct {
	Symbol string
	Value  string
}

// Rate is one row of an exchange tile.
type Rate struct {
	Code  string
	Value string
}

// Repo is one entry of a repos tile.
type Repo struct {
	Name        string
	URL         string
	Description string
	Stars       string
}

// Tile is the visual model of one widget, independent of output format.
type Tile struct {
	Name    string
	Index   int
	Kind    string
	Title   string
	Icon    string
	State   TileState
	Heading string

	// Message is the error text in the error state.
	Message string

	// Placeholders is the number of skeleton rows in the loading state.
	Placeholders int

	Prices []Price
	Rates  []Rate
	Repos  []Repo
}

// Build maps a widget state to its tile.
//
// Build is a pure function of its input. Loading takes precedence over a
// previous error, matching what the controller reports: the error stays set
// until a fetch succeeds. Payload fields are read defensively; anything
// missing or of the wrong type renders as "-" or is left out.
func Build(state store.WidgetState) Tile {
	tile := Tile{
		Name:    state.Name,
		Index:   state.Index,
		Kind:    state.Kind,
		Title:   state.Title,
		Icon:    state.Icon,
		Heading: heading(state.Kind),
	}

	switch {
	case state.Loading:
		tile.State = TileLoading
		tile.Placeholders = placeholderRows(state.Kind)
	case state.Error != nil:
		tile.State = TileError
		tile.Message = state.Error.Message
	case state.Data != nil:
		tile.State = TileReady
		switch state.Kind {
		case KindCrypto:
			tile.Prices = cryptoPrices(state.Data)
		case KindExchange:
			tile.Rates = exchangeRates(state.Data)
		case KindRepos:
			tile.Repos = sampledRepos(state.Data, state.DataID)
		}
	default:
		tile.State = TileEmpty
	}

	return tile
}

// BuildAll maps every state to its tile, preserving order.
func BuildAll(states []store.WidgetState) []Tile {
	tiles := make([]Tile, len(states))
	for i, s := range states {
		tiles[i] = Build(s)
	}
	return tiles
}

func heading(kind string) string {
	switch kind {
	case KindCrypto:
		return "Current Prices"
	case KindExchange:
		return "Major Exchange Rates"
	case KindRepos:
		return "Top Trending"
	default:
		return ""
	}
}

func placeholderRows(kind string) int {
	switch kind {
	case KindCrypto:
		return 2
	case KindExchange:
		return len(exchangeCurrencies)
	case KindRepos:
		return repoSampleSize
	default:
		return 1
	}
}

// cryptoPrices reads {"bitcoin":{"usd":N},"ethereum":{"usd":N}}.
func cryptoPrices(data any) []Price {
	coins := []struct{ symbol, id string }{
		{"BTC", "bitcoin"},
		{"ETH", "ethereum"},
	}

	prices := make([]Price, 0, len(coins))
	for _, coin := range coins {
		value := placeholder
		if usd, ok := toFloat(lookup(data, coin.id, "usd")); ok {
			value = "$" + formatNumber(usd, 3)
		}
		prices = append(prices, Price{Symbol: coin.symbol, Value: value})
	}
	return prices
}

// exchangeRates reads {"rates":{"EUR":N,...}}.
func exchangeRates(data any) []Rate {
	rates := make([]Rate, 0, len(exchangeCurrencies))
	for _, code := range exchangeCurrencies {
		value := placeholder
		if rate, ok := toFloat(lookup(data, "rates", code)); ok {
			value = formatNumber(rate, 5)
		}
		rates = append(rates, Rate{Code: code, Value: value})
	}
	return rates
}

// sampledRepos reads {"items":[{...}]} and returns a random sample of
// repoSampleSize items seeded by the payload ID.
func sampledRepos(data any, dataID string) []Repo {
	items, _ := lookup(data, "items").([]any)

	objects := make([]any, 0, len(items))
	for _, item := range items {
		if _, ok := item.(map[string]any); ok {
			objects = append(objects, item)
		}
	}

	picked := Sample(objects, repoSampleSize, dataID)
	repos := make([]Repo, 0, len(picked))
	for _, item := range picked {
		repo := Repo{
			Name:  stringField(item, "full_name"),
			URL:   stringField(item, "html_url"),
			Stars: placeholder,
		}
		repo.Description = stringField(item, "description")
		if stars, ok := toFloat(lookup(item, "stargazers_count")); ok {
			repo.Stars = formatNumber(stars, 0)
		}
		if repo.Name == "" {
			repo.Name = placeholder
		}
		repos = append(repos, repo)
	}
	return repos
}

// lookup walks nested JSON objects along path, returning nil when any step
// is missing or not an object.
func lookup(data any, path ...string) any {
	current := data
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = obj[key]
		if !ok {
			return nil
		}
	}
	return current
}

func stringField(data any, key string) string {
	s, _ := lookup(data, key).(string)
	return s
}
