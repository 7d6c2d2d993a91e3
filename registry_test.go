package izone

import "testing"

func TestDefaultWidgets(t *testing.T) {
	widgets := DefaultWidgets()
	if len(widgets) != 3 {
		t.Fatalf("len(DefaultWidgets()) = %d, want 3", len(widgets))
	}

	want := []struct {
		name  string
		kind  Kind
		title string
		url   string
	}{
		{"crypto", KindCrypto, "Crypto Prices", CryptoURL},
		{"exchange", KindExchange, "Exchange Rates", ExchangeURL},
		{"repos", KindRepos, "Trending GitHub Repos", ReposURL},
	}

	for i, tt := range want {
		w := widgets[i]
		if w.Name() != tt.name {
			t.Errorf("widgets[%d].Name() = %q, want %q", i, w.Name(), tt.name)
		}
		if w.Kind() != tt.kind {
			t.Errorf("widgets[%d].Kind() = %q, want %q", i, w.Kind(), tt.kind)
		}
		if w.Title() != tt.title {
			t.Errorf("widgets[%d].Title() = %q, want %q", i, w.Title(), tt.title)
		}
		if w.URL() != tt.url {
			t.Errorf("widgets[%d].URL() = %q, want %q", i, w.URL(), tt.url)
		}
		if w.Description() == "" {
			t.Errorf("widgets[%d].Description() is empty", i)
		}
	}
}

func TestReference(t *testing.T) {
	entries := Reference(DefaultWidgets())
	if len(entries) != 3 {
		t.Fatalf("len(Reference()) = %d, want 3", len(entries))
	}

	first := entries[0]
	if first.Widget != "Crypto Prices" {
		t.Errorf("Widget = %q, want %q", first.Widget, "Crypto Prices")
	}
	if first.Method != "GET" {
		t.Errorf("Method = %q, want %q", first.Method, "GET")
	}
	if first.Endpoint != CryptoURL || first.Example != CryptoURL {
		t.Errorf("Endpoint/Example = %q/%q, want %q", first.Endpoint, first.Example, CryptoURL)
	}
	if first.Description != "Get current BTC & ETH prices in USD (CoinGecko public API)" {
		t.Errorf("Description = %q", first.Description)
	}
}

func TestReference_Empty(t *testing.T) {
	if got := Reference(nil); len(got) != 0 {
		t.Errorf("Reference(nil) = %v, want empty", got)
	}
}

func TestDefaultWidget(t *testing.T) {
	w, ok := DefaultWidget(KindExchange)
	if !ok {
		t.Fatal("DefaultWidget(exchange) not found")
	}
	if w.URL() != ExchangeURL || w.Icon() != "💱" {
		t.Errorf("DefaultWidget(exchange) = %q/%q", w.URL(), w.Icon())
	}

	if _, ok := DefaultWidget(Kind("weather")); ok {
		t.Error("DefaultWidget(weather) should not be found")
	}
}
