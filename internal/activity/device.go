package activity

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Device 是从 User-Agent 粗略推断出的客户端信息。
type Device struct {
	Type    string `json:"device_type"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

const fingerprintLen = 16

// ParseUserAgent 按固定顺序做子串匹配（大小写不敏感），先匹配者优先。
func ParseUserAgent(userAgent string) Device {
	ua := strings.ToLower(userAgent)
	return Device{
		Type:    deviceType(ua),
		Browser: browser(ua),
		OS:      operatingSystem(ua),
	}
}

func deviceType(ua string) string {
	switch {
	case strings.Contains(ua, "mobile"):
		return "mobile"
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return "tablet"
	default:
		return "desktop"
	}
}

// browser 中 Chrome 需排除 Edge（含 Edg/ 标识），Safari 需排除 Chrome。
func browser(ua string) string {
	isEdge := strings.Contains(ua, "edg")
	isChrome := strings.Contains(ua, "chrome")
	switch {
	case isChrome && !isEdge:
		return "Chrome"
	case strings.Contains(ua, "safari") && !isChrome:
		return "Safari"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case isEdge:
		return "Edge"
	default:
		return "Unknown"
	}
}

func operatingSystem(ua string) string {
	switch {
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac"):
		return "macOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "ios"), strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "iOS"
	default:
		return "Unknown"
	}
}

// Fingerprint 对 "language-WxH-device-browser-os" 做 base64 编码并截取前 16 个字符。
// 相同的粗粒度信号总是得到相同的结果，不能作为安全标识使用。
func Fingerprint(userAgent, language string, screenWidth, screenHeight int) string {
	d := ParseUserAgent(userAgent)
	raw := fmt.Sprintf("%s-%dx%d-%s-%s-%s", language, screenWidth, screenHeight, d.Type, d.Browser, d.OS)
	encoded := base64.StdEncoding.EncodeToString([]byte(raw))
	if len(encoded) > fingerprintLen {
		encoded = encoded[:fingerprintLen]
	}
	return encoded
}
