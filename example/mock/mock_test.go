package mock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandler_Shapes(t *testing.T) {
	ts := httptest.NewServer(NewHandler())
	defer ts.Close()

	tests := []struct {
		path string
		keys []string
	}{
		{CryptoPath, []string{"bitcoin", "ethereum"}},
		{ExchangePath, []string{"base", "rates"}},
		{ReposPath, []string{"items"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			// failures are random, so retry until a success
			for attempt := 0; attempt < 20; attempt++ {
				resp, err := http.Get(ts.URL + tt.path)
				if err != nil {
					t.Fatalf("GET %s error = %v", tt.path, err)
				}

				var body map[string]any
				err = json.NewDecoder(resp.Body).Decode(&body)
				resp.Body.Close()
				if err != nil {
					t.Fatalf("decoding %s: %v", tt.path, err)
				}

				if resp.StatusCode == http.StatusServiceUnavailable {
					if _, ok := body["message"].(string); !ok {
						t.Errorf("503 body = %v, want a message", body)
					}
					continue
				}

				for _, key := range tt.keys {
					if _, ok := body[key]; !ok {
						t.Errorf("%s body missing %q: %v", tt.path, key, body)
					}
				}
				return
			}
			t.Fatalf("no successful response from %s", tt.path)
		})
	}
}
