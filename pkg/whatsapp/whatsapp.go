package whatsapp

import (
	"net/url"
	"strings"
)

// Link builds a wa.me chat link for the given phone number and prefilled
// message. Non-digit characters are stripped from the number.
func Link(phoneNumber, message string) string {
	digits := normalizeNumber(phoneNumber)
	if digits == "" {
		return ""
	}
	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

func normalizeNumber(phoneNumber string) string {
	var b strings.Builder
	for _, r := range phoneNumber {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
