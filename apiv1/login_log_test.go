package apiv1

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaChromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	uaEdge          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0"
	uaSafariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaSafariMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
	uaFirefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaAndroid       = "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36"
	uaIPad          = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko)"
	uaOpera         = "Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 OPR/105.0"
	uaOperaPresto   = "Opera/9.80 (Macintosh; Intel Mac OS X 10.6.8; U; en) Presto/2.12.388 Version/12.16"
)

func TestUserAgentParsing(t *testing.T) {
	tests := []struct {
		ua      string
		device  string
		browser string
		os      string
	}{
		{uaChromeWindows, "Desktop", "Chrome", "Windows"},
		{uaEdge, "Desktop", "Edge", "Windows"},
		{uaSafariIPhone, "Mobile", "Safari", "iOS"},
		{uaSafariMac, "Desktop", "Safari", "Mac OS"},
		{uaFirefoxLinux, "Desktop", "Firefox", "Linux"},
		{uaAndroid, "Mobile", "Chrome", "Android"},
		{uaIPad, "Tablet", "Other", "iOS"},
		{uaOpera, "Desktop", "Opera", "Windows"},
		{uaOperaPresto, "Desktop", "Opera", "Mac OS"},
		{"", "Unknown", "Unknown", "Unknown"},
		{"curl/8.0", "Desktop", "Other", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.browser+"/"+tt.os, func(t *testing.T) {
			assert.Equal(t, tt.device, DeviceType(tt.ua))
			assert.Equal(t, tt.browser, Browser(tt.ua))
			assert.Equal(t, tt.os, OperatingSystem(tt.ua))
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(req))

	req.Header.Set("HTTP_CLIENT_IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "unknown")
	req.Header.Set("Proxy-Client-IP", "192.168.1.20")
	assert.Equal(t, "192.168.1.20", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")
	assert.Equal(t, "203.0.113.7", ClientIP(req))
}

func TestNewLoginLog(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("User-Agent", uaSafariIPhone)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	info := NewLoginInfo(req)
	log := NewLoginLog(42, info, false, "token expired")

	assert.Equal(t, uint(42), log.UserID)
	assert.Equal(t, "203.0.113.7", log.IP)
	assert.Equal(t, "Mobile", log.DeviceType)
	assert.Equal(t, "Safari", log.BrowserInfo)
	assert.Equal(t, "iOS", log.OSInfo)
	assert.False(t, log.Successful)
	assert.Equal(t, "token expired", log.FailReason)
	assert.False(t, log.LoginAt.IsZero())
}
