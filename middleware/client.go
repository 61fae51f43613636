// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"github.com/danielhkuo/quickly-survey/models"
)

// Device classes reported in demographics
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

// ClientInfo captures the caller's IP and a coarse classification of its
// User-Agent. Fields stay empty when the header is missing.
func ClientInfo(r *http.Request) models.ClientInfo {
	info := models.ClientInfo{
		IP:        GetClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if info.UserAgent == "" {
		return info
	}

	ua := useragent.New(info.UserAgent)
	info.DeviceType = deviceType(ua, info.UserAgent)
	info.Browser, _ = ua.Browser()
	info.OS = ua.OSInfo().Name
	return info
}

func deviceType(ua *useragent.UserAgent, raw string) string {
	switch {
	case ua.Bot():
		return DeviceBot
	case strings.Contains(raw, "iPad") || strings.Contains(raw, "Tablet"):
		return DeviceTablet
	case ua.Mobile():
		return DeviceMobile
	}
	return DeviceDesktop
}
