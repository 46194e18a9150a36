package render

// HeaderProfile is the set of HTTP headers presented to target pages so the
// rendered view matches what a real browser would receive.
type HeaderProfile struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
	AcceptEncoding string
	SecFetchDest   string
	SecFetchMode   string
	SecFetchSite   string
	SecFetchUser   string
}

func defaultHeaderProfile() HeaderProfile {
	return HeaderProfile{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
		Accept:         "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		AcceptLanguage: "en-US,en;q=0.9",
		AcceptEncoding: "gzip, deflate, br, zstd",
		SecFetchDest:   "document",
		SecFetchMode:   "navigate",
		SecFetchSite:   "none",
		SecFetchUser:   "?1",
	}
}

func (p HeaderProfile) Headers() map[string]string {
	h := map[string]string{
		"Accept":                    p.Accept,
		"Accept-Language":           p.AcceptLanguage,
		"Accept-Encoding":           p.AcceptEncoding,
		"Upgrade-Insecure-Requests": "1",
	}
	if p.SecFetchDest != "" {
		h["Sec-Fetch-Dest"] = p.SecFetchDest
		h["Sec-Fetch-Mode"] = p.SecFetchMode
		h["Sec-Fetch-Site"] = p.SecFetchSite
		if p.SecFetchUser != "" {
			h["Sec-Fetch-User"] = p.SecFetchUser
		}
	}
	return h
}
