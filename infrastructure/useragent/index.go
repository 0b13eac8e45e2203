package useragent

import (
	"github.com/mileusna/useragent"
	"rollcall.io/entities"
)

type UserAgent struct {
	Bot       bool
	OS        string
	OSVersion string
	Device    string
	Name      string
}

func ParseUserAgent(userAgent string) *UserAgent {
	parsed := useragent.Parse(userAgent)
	return &UserAgent{
		Bot:       parsed.Bot,
		OS:        parsed.OS,
		OSVersion: parsed.OSVersionNoFull(),
		Device:    deviceName(parsed),
		Name:      parsed.Name,
	}
}

// CaptureDevice describes the client a capture came from. Empty headers
// yield nil.
func CaptureDevice(userAgent string) *entities.CaptureDevice {
	if userAgent == "" {
		return nil
	}
	parsed := ParseUserAgent(userAgent)
	return &entities.CaptureDevice{
		Name:      parsed.Name,
		OS:        parsed.OS,
		OSVersion: parsed.OSVersion,
		Device:    parsed.Device,
	}
}

func deviceName(parsed useragent.UserAgent) string {
	if parsed.Device != "" {
		return parsed.Device
	}
	switch {
	case parsed.Mobile:
		return "mobile"
	case parsed.Tablet:
		return "tablet"
	case parsed.Desktop:
		return "desktop"
	}
	return "unknown"
}
