// Package extract applies rule-based heuristics to rendered HTML to propose
// party and candidate entities for moderation. Everything here is a pure
// function of its input with no network access and no error path; a page
// with no matches yields empty lists.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"civicscan/internal/utils/textsample"
)

const (
	maxListItems     = 200
	maxParties       = 100
	maxCandidates    = 250
	maxHeadingLen    = 80
	minCandidateLen  = 3
	maxTextSampleLen = 5000
)

// partyKeywords flags a heading as a party name when its lowercased text
// contains any of them.
var partyKeywords = []string{"party", "alliance", "front", "league"}

// nameLike matches a run of 2-4 consecutive capitalized words.
var nameLike = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+){1,3}\b`)

// Party is an extracted, unconfirmed party proposal.
type Party struct {
	Name        string  `json:"name"`
	Abbrev      *string `json:"abbrev"`
	LogoURL     *string `json:"logo_url"`
	Description *string `json:"description"`
}

// Candidate is an extracted, unconfirmed candidate proposal.
type Candidate struct {
	FullName          string  `json:"full_name"`
	PartyGuess        *string `json:"party_guess"`
	ConstituencyGuess *string `json:"constituency_guess"`
	PhotoURL          *string `json:"photo_url"`
	Bio               *string `json:"bio"`
}

// Result is the full output of one extraction pass.
type Result struct {
	Parties       []Party     `json:"parties"`
	Candidates    []Candidate `json:"candidates"`
	RawTextSample string      `json:"raw_text_sample"`
}

// FromHTML extracts entity proposals and a cleaned text sample from raw HTML.
func FromHTML(html string) Result {
	res := Result{Parties: []Party{}, Candidates: []Candidate{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return res
	}

	var headings []string
	doc.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, normalizeSpace(s.Text()))
	})

	// Bounded to avoid pathological pages with enormous menus.
	var items []string
	doc.Find("li").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxListItems {
			return false
		}
		items = append(items, normalizeSpace(s.Text()))
		return true
	})

	seenParties := map[string]struct{}{}
	for _, h := range headings {
		if len(res.Parties) >= maxParties {
			break
		}
		if h == "" || utf8.RuneCountInString(h) > maxHeadingLen {
			continue
		}
		if !containsPartyKeyword(h) {
			continue
		}
		if _, dup := seenParties[h]; dup {
			continue
		}
		seenParties[h] = struct{}{}
		res.Parties = append(res.Parties, Party{Name: h})
	}

	seenCandidates := map[string]struct{}{}
	for _, text := range append(append([]string{}, headings...), items...) {
		if len(res.Candidates) >= maxCandidates {
			break
		}
		n := utf8.RuneCountInString(text)
		if n < minCandidateLen || n > maxHeadingLen {
			continue
		}
		if !nameLike.MatchString(text) {
			continue
		}
		if _, dup := seenCandidates[text]; dup {
			continue
		}
		seenCandidates[text] = struct{}{}
		res.Candidates = append(res.Candidates, Candidate{FullName: text})
	}

	res.RawTextSample = truncateRunes(textsample.Extract(html), maxTextSampleLen)
	if res.RawTextSample == "" {
		res.RawTextSample = truncateRunes(normalizeSpace(doc.Text()), maxTextSampleLen)
	}
	return res
}

func containsPartyKeyword(heading string) bool {
	lower := strings.ToLower(heading)
	for _, kw := range partyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// normalizeSpace collapses all runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
