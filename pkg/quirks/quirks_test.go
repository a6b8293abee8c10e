package quirks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaChrome  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	uaSafari  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15"
	uaFirefox = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	uaAndroid = "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Mobile Safari/537.36"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name           string
		ua             string
		firefox        bool
		layoutViewport bool
	}{
		{"chrome", uaChrome, false, true},
		{"safari", uaSafari, false, false},
		{"firefox", uaFirefox, true, true},
		{"android webview", uaAndroid, false, true},
		{"empty", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Detect(tt.ua)
			assert.Equal(t, tt.firefox, p.Firefox)
			assert.Equal(t, tt.layoutViewport, p.LayoutViewport)
			assert.Equal(t, tt.ua, p.UserAgent)
		})
	}
}

func TestDetectBrands(t *testing.T) {
	p := DetectBrands([]Brand{{"Chromium", "126"}, {"Google Chrome", "126"}})
	assert.Equal(t, "Chromium/126 Google Chrome/126", p.UserAgent)
	assert.True(t, p.LayoutViewport)
	assert.False(t, p.Firefox)
}

func TestProcessIsStable(t *testing.T) {
	SetProcessUserAgent(uaFirefox)
	first := Process()
	SetProcessUserAgent(uaSafari)
	assert.Equal(t, first, Process())
}
