package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTMLPartyHeuristic(t *testing.T) {
	html := `<html><body>
		<h1>Awami League</h1>
		<h2>Jatiya Party</h2>
		<h2>United Front</h2>
		<h3>Grand Alliance of Hope</h3>
		<h2>Contact Us</h2>
	</body></html>`

	res := FromHTML(html)
	require.Len(t, res.Parties, 4)
	assert.Equal(t, "Awami League", res.Parties[0].Name)
	assert.Nil(t, res.Parties[0].Abbrev)
	assert.Nil(t, res.Parties[0].LogoURL)
	assert.Nil(t, res.Parties[0].Description)
	assert.Equal(t, "Jatiya Party", res.Parties[1].Name)
}

func TestFromHTMLPartyKeywordIsCaseInsensitive(t *testing.T) {
	res := FromHTML(`<h1>THE PEOPLES PARTY</h1>`)
	require.Len(t, res.Parties, 1)
}

func TestFromHTMLPartyHeadingTooLongExcluded(t *testing.T) {
	long := "Party " + strings.Repeat("x", 80)
	res := FromHTML(fmt.Sprintf("<h1>%s</h1>", long))
	assert.Empty(t, res.Parties)
}

func TestFromHTMLCandidateNameHeuristic(t *testing.T) {
	html := `<body>
		<h2>Sheikh Mujibur Rahman</h2>
		<ul>
			<li>Khaleda Zia</li>
			<li>home</li>
			<li>A very long sentence about someone named John Smith that goes well past the eighty character cap for entries</li>
		</ul>
	</body>`

	res := FromHTML(html)
	require.Len(t, res.Candidates, 2)
	// headings come before list items
	assert.Equal(t, "Sheikh Mujibur Rahman", res.Candidates[0].FullName)
	assert.Equal(t, "Khaleda Zia", res.Candidates[1].FullName)
	assert.Nil(t, res.Candidates[0].PartyGuess)
	assert.Nil(t, res.Candidates[0].Bio)
}

func TestFromHTMLNameRegexRejectsNonNames(t *testing.T) {
	for _, text := range []string{"hello world", "HELLO WORLD", "Single", "iPhone Sale today"} {
		res := FromHTML(fmt.Sprintf("<li>%s</li>", text))
		assert.Empty(t, res.Candidates, "matched %q", text)
	}
}

func TestFromHTMLDedupPreservesFirstSeenOrder(t *testing.T) {
	html := `<body>
		<h1>Workers Party</h1>
		<h2>Liberty Front</h2>
		<h2>Workers Party</h2>
		<ul><li>Khaleda Zia</li><li>Khaleda Zia</li></ul>
	</body>`

	res := FromHTML(html)
	require.Len(t, res.Parties, 2)
	assert.Equal(t, "Workers Party", res.Parties[0].Name)
	assert.Equal(t, "Liberty Front", res.Parties[1].Name)
	require.Len(t, res.Candidates, 3)
	assert.Equal(t, "Workers Party", res.Candidates[0].FullName)
	assert.Equal(t, "Liberty Front", res.Candidates[1].FullName)
	assert.Equal(t, "Khaleda Zia", res.Candidates[2].FullName)
}

func TestFromHTMLBounds(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, "<h2>Party Number %c%c</h2>", 'A'+i%26, 'A'+(i/26)%26)
	}
	b.WriteString("<ul>")
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&b, "<li>%c%cson Ali Khan</li>", 'A'+i%26, 'a'+(i/26)%26)
	}
	b.WriteString("</ul>")

	// 150 matching headings plus 200 scanned list items overflow both caps
	res := FromHTML(b.String())
	assert.Len(t, res.Parties, 100)
	assert.Len(t, res.Candidates, 250)
}

func TestFromHTMLListItemsBounded(t *testing.T) {
	var b strings.Builder
	b.WriteString("<ul>")
	for i := 0; i < 205; i++ {
		fmt.Fprintf(&b, "<li>item %d</li>", i)
	}
	b.WriteString("<li>Overflow Person Name</li></ul>")

	res := FromHTML(b.String())
	// the name sits past the 200-item bound, so it is never scanned
	assert.Empty(t, res.Candidates)
}

func TestFromHTMLDeterministic(t *testing.T) {
	html := `<body>
		<h1>Awami League</h1><h2>Jatiya Party</h2>
		<ul><li>Sheikh Hasina</li><li>Khaleda Zia</li><li>Muhammad Yunus</li></ul>
		<p>Some body text here.</p>
	</body>`

	first := FromHTML(html)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FromHTML(html))
	}
}

func TestFromHTMLTextSampleUsesMainContent(t *testing.T) {
	html := `<body>
		<nav>skip me</nav>
		<main><p>This is the article body worth keeping.</p></main>
		<footer>skip me too</footer>
	</body>`

	res := FromHTML(html)
	assert.Contains(t, res.RawTextSample, "article body worth keeping")
	assert.NotContains(t, res.RawTextSample, "skip me")
}

func TestFromHTMLTextSampleFallsBackToRawText(t *testing.T) {
	res := FromHTML(`<body><span>plain inline text only</span></body>`)
	assert.Contains(t, res.RawTextSample, "plain inline text only")
}

func TestFromHTMLTextSampleCapped(t *testing.T) {
	html := "<main><p>" + strings.Repeat("word ", 3000) + "</p></main>"
	res := FromHTML(html)
	assert.LessOrEqual(t, len([]rune(res.RawTextSample)), 5000)
}

func TestFromHTMLEmptyInput(t *testing.T) {
	res := FromHTML("")
	assert.NotNil(t, res.Parties)
	assert.NotNil(t, res.Candidates)
	assert.Empty(t, res.Parties)
	assert.Empty(t, res.Candidates)
}
