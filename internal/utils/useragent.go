package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile, tablet, desktop
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	Platform   string `json:"platform"`
	IsBot      bool   `json:"is_bot"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
			Platform:   "unknown",
		}
	}

	parser := ua.New(userAgent)

	return DeviceInfo{
		DeviceType: getDeviceType(parser),
		OS:         getOS(parser),
		Browser:    getBrowser(parser),
		Platform:   getPlatform(parser),
		IsBot:      parser.Bot(),
		Raw:        userAgent,
	}
}

func getDeviceType(parser *ua.UserAgent) string {
	if parser.Mobile() {
		if strings.Contains(strings.ToLower(parser.UA()), "tablet") ||
			strings.Contains(strings.ToLower(parser.UA()), "ipad") {
			return "tablet"
		}
		return "mobile"
	}
	return "desktop"
}

func getOS(parser *ua.UserAgent) string {
	osInfo := parser.OSInfo()
	if osInfo.Name == "" {
		return "Unknown"
	}
	if osInfo.Version != "" {
		return osInfo.Name + " " + osInfo.Version
	}
	return osInfo.Name
}

func getBrowser(parser *ua.UserAgent) string {
	name, _ := parser.Browser()
	if name == "" {
		return "Unknown"
	}
	return name
}

func getPlatform(parser *ua.UserAgent) string {
	osName := strings.ToLower(parser.OSInfo().Name)

	switch {
	case strings.Contains(osName, "android"):
		return "android"
	case strings.Contains(osName, "iphone os"), strings.Contains(osName, "ios"):
		return "ios"
	case strings.Contains(osName, "windows"):
		return "windows"
	case strings.Contains(osName, "mac"):
		return "mac"
	case strings.Contains(osName, "linux"), strings.Contains(osName, "ubuntu"):
		return "linux"
	}
	return "unknown"
}
