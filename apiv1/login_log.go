package apiv1

import (
	"net"
	"net/http"
	"strings"
	"time"

	"preview-api/meta"
)

const unknownAgent = "Unknown"

// UserLoginLog records a sign-in attempt
type UserLoginLog struct {
	meta.BaseResource `json:",inline"`

	UserID      uint      `gorm:"not null;index" json:"userId"`
	IP          string    `gorm:"size:64" json:"ip"`
	UserAgent   string    `gorm:"size:512" json:"userAgent"`
	DeviceType  string    `gorm:"size:20" json:"deviceType"`
	BrowserInfo string    `gorm:"size:40" json:"browserInfo"`
	OSInfo      string    `gorm:"size:40" json:"osInfo"`
	Successful  bool      `gorm:"not null" json:"successful"`
	FailReason  string    `gorm:"size:255" json:"failReason,omitempty"`
	LoginAt     time.Time `gorm:"not null;index" json:"loginAt"`
}

// TableName specifies the table name for GORM
func (UserLoginLog) TableName() string {
	return "user_login_logs"
}

// LoginInfo is the request metadata captured for a login
type LoginInfo struct {
	IP         string    `json:"ip"`
	UserAgent  string    `json:"-"`
	DeviceType string    `json:"deviceType"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	LoginAt    time.Time `json:"loginAt"`
}

// NewLoginInfo extracts client address and user agent details from a request.
func NewLoginInfo(r *http.Request) LoginInfo {
	ua := r.UserAgent()
	return LoginInfo{
		IP:         ClientIP(r),
		UserAgent:  ua,
		DeviceType: DeviceType(ua),
		Browser:    Browser(ua),
		OS:         OperatingSystem(ua),
		LoginAt:    time.Now(),
	}
}

// NewLoginLog builds a login log entry for user from request info.
func NewLoginLog(userID uint, info LoginInfo, successful bool, failReason string) *UserLoginLog {
	return &UserLoginLog{
		UserID:      userID,
		IP:          info.IP,
		UserAgent:   info.UserAgent,
		DeviceType:  info.DeviceType,
		BrowserInfo: info.Browser,
		OSInfo:      info.OS,
		Successful:  successful,
		FailReason:  failReason,
		LoginAt:     info.LoginAt,
	}
}

var clientIPHeaders = []string{
	"X-Forwarded-For",
	"Proxy-Client-IP",
	"WL-Proxy-Client-IP",
	"HTTP_CLIENT_IP",
	"HTTP_X_FORWARDED_FOR",
}

// ClientIP resolves the caller address, preferring proxy headers over the socket.
func ClientIP(r *http.Request) string {
	for _, h := range clientIPHeaders {
		v := strings.TrimSpace(r.Header.Get(h))
		if v == "" || strings.EqualFold(v, "unknown") {
			continue
		}
		// first hop of a forwarded chain
		if i := strings.IndexByte(v, ','); i >= 0 {
			v = strings.TrimSpace(v[:i])
		}
		return v
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// DeviceType classifies a user agent as Mobile, Tablet or Desktop.
func DeviceType(userAgent string) string {
	if userAgent == "" {
		return unknownAgent
	}
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "Mobile"
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "Tablet"
	default:
		return "Desktop"
	}
}

// Browser extracts the browser family from a user agent.
func Browser(userAgent string) string {
	if userAgent == "" {
		return unknownAgent
	}
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "edge") || strings.Contains(ua, "edg"):
		return "Edge"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr"):
		return "Opera"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	case strings.Contains(ua, "safari"):
		return "Safari"
	default:
		return "Other"
	}
}

// OperatingSystem extracts the OS family from a user agent.
func OperatingSystem(userAgent string) string {
	if userAgent == "" {
		return unknownAgent
	}
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ipod"):
		return "iOS"
	case strings.Contains(ua, "mac os"):
		return "Mac OS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "linux"):
		return "Linux"
	default:
		return "Other"
	}
}
