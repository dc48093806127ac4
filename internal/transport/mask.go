package transport

import "strings"

// MaskEmail partially redacts an email for display: first char of the local
// part plus five stars, first char of the domain plus three stars, and the
// TLD reduced to its first char, a star, and (when long enough) its last
// char. Strings that do not look like an email pass through unchanged.
func MaskEmail(email string) string {
	if email == "" {
		return email
	}

	local, domainPart, ok := strings.Cut(email, "@")
	if !ok || local == "" || domainPart == "" {
		return email
	}

	maskedLocal := local[:1] + strings.Repeat("*", 5)

	domain, tld, hasTLD := strings.Cut(domainPart, ".")
	maskedDomain := domain
	if len(domain) > 1 {
		maskedDomain = domain[:1] + strings.Repeat("*", 3)
	}

	// dotless domains (a@localhost) carry no TLD to redact
	if !hasTLD {
		return maskedLocal + "@" + maskedDomain
	}

	maskedTld := tld
	if len(tld) > 2 {
		maskedTld = tld[:1] + "*" + tld[len(tld)-1:]
	} else if len(tld) > 1 {
		maskedTld = tld[:1] + "*"
	}

	return maskedLocal + "@" + maskedDomain + "." + maskedTld
}
