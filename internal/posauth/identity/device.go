package identity

import (
	"net/http"
	"strings"

	"github.com/mileusna/useragent"
)

// Request headers consulted while classifying a caller.
const (
	HeaderOrigin           = "Origin"
	HeaderUserAgent        = "User-Agent"
	HeaderExtensionVersion = "X-Shopify-POS-Extension-Version"
	HeaderLocationID       = "X-Shopify-Location-Id"
)

// DeviceContext is derived per request and never cached.
type DeviceContext struct {
	IsIOSDevice    bool `json:"isIOSDevice"`
	IsPOSExtension bool `json:"isPOSExtension"`
}

// DeviceMarkers are the vendor strings that identify a POS extension caller.
type DeviceMarkers struct {
	// ExtensionOrigin is matched as a substring of Origin.
	ExtensionOrigin string
	// UserAgentMarkers are matched as substrings of User-Agent.
	UserAgentMarkers []string
	// ExtensionVersionHeader marks a POS extension just by being present.
	ExtensionVersionHeader string
}

// DefaultDeviceMarkers returns the Shopify POS markers.
func DefaultDeviceMarkers() DeviceMarkers {
	return DeviceMarkers{
		ExtensionOrigin:        "extensions.shopifycdn.com",
		UserAgentMarkers:       []string{"Shopify POS", "ExtensibilityHost"},
		ExtensionVersionHeader: HeaderExtensionVersion,
	}
}

// ClassifyDevice classifies a caller with the default markers.
func ClassifyDevice(userAgent, origin string, hasExtensionVersion bool) DeviceContext {
	return DefaultDeviceMarkers().Classify(userAgent, origin, hasExtensionVersion)
}

// Classify is a pure function of its inputs.
func (m DeviceMarkers) Classify(userAgent, origin string, hasExtensionVersion bool) DeviceContext {
	return DeviceContext{
		IsIOSDevice:    isIOSUserAgent(userAgent),
		IsPOSExtension: m.isPOSExtension(userAgent, origin, hasExtensionVersion),
	}
}

// ClassifyRequest reads the relevant headers off r.
func (m DeviceMarkers) ClassifyRequest(r *http.Request) DeviceContext {
	hasVersion := false
	if m.ExtensionVersionHeader != "" {
		hasVersion = len(r.Header.Values(m.ExtensionVersionHeader)) > 0
	}
	return m.Classify(r.UserAgent(), r.Header.Get(HeaderOrigin), hasVersion)
}

func isIOSUserAgent(ua string) bool {
	for _, marker := range []string{"iPhone", "iPad", "iPod"} {
		if strings.Contains(ua, marker) {
			return true
		}
	}
	return strings.Contains(ua, "Safari") && strings.Contains(ua, "Mobile")
}

func (m DeviceMarkers) isPOSExtension(ua, origin string, hasVersion bool) bool {
	if m.ExtensionOrigin != "" && strings.Contains(origin, m.ExtensionOrigin) {
		return true
	}
	for _, marker := range m.UserAgentMarkers {
		if marker != "" && strings.Contains(ua, marker) {
			return true
		}
	}
	return hasVersion
}

// UserAgentInfo is a parsed User-Agent for diagnostics only. Classification
// never looks at it.
type UserAgentInfo struct {
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
	OS        string `json:"os,omitempty"`
	OSVersion string `json:"osVersion,omitempty"`
	Device    string `json:"device,omitempty"`
	Form      string `json:"form,omitempty"`
}

// DescribeUserAgent parses ua for diagnostics.
func DescribeUserAgent(ua string) UserAgentInfo {
	if ua == "" {
		return UserAgentInfo{}
	}

	parsed := useragent.Parse(ua)
	info := UserAgentInfo{
		Name:      parsed.Name,
		Version:   parsed.Version,
		OS:        parsed.OS,
		OSVersion: parsed.OSVersion,
		Device:    parsed.Device,
	}

	switch {
	case parsed.Tablet:
		info.Form = "tablet"
	case parsed.Mobile:
		info.Form = "mobile"
	case parsed.Desktop:
		info.Form = "desktop"
	case parsed.Bot:
		info.Form = "bot"
	}
	return info
}
