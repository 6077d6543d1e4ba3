package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/masaken/backoffice/internal/config"
)

// LinkBuilder produces WhatsApp deep links for hand-off to the external
// messaging application. There is no API call involved; opening the link is
// the UI's responsibility.
type LinkBuilder struct {
	baseURL     string
	countryCode string
	trunkPrefix string
}

// NewLinkBuilder builds a LinkBuilder from messaging configuration.
func NewLinkBuilder(cfg config.MessagingConfig) *LinkBuilder {
	return &LinkBuilder{
		baseURL:     strings.TrimSuffix(cfg.LinkBaseURL, "/"),
		countryCode: cfg.CountryCode,
		trunkPrefix: cfg.TrunkPrefix,
	}
}

// NormalizePhone strips all non-digit characters and replaces a leading
// local trunk prefix with the country calling code, e.g. 050... -> 96650...
func (b *LinkBuilder) NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	clean := digits.String()
	if b.trunkPrefix != "" && strings.HasPrefix(clean, b.trunkPrefix) {
		return b.countryCode + clean[len(b.trunkPrefix):]
	}
	return clean
}

// MessageLink returns a deep link addressed to the given phone number.
func (b *LinkBuilder) MessageLink(phone, body string) string {
	return fmt.Sprintf("%s/%s?text=%s", b.baseURL, b.NormalizePhone(phone), url.QueryEscape(body))
}

// ShareLink returns a recipient-less deep link; the operator picks the
// contact inside the messaging application.
func (b *LinkBuilder) ShareLink(body string) string {
	return fmt.Sprintf("%s/?text=%s", b.baseURL, url.QueryEscape(body))
}
