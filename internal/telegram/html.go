package telegram

import (
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-telegram/bot/models"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// EntitiesToHTML renders message text with its formatting entities as
// Telegram-flavoured HTML. Entity offsets are UTF-16 code units.
// Unsupported entity types are dropped and their text kept.
func EntitiesToHTML(text string, entities []models.MessageEntity) string {
	units := utf16.Encode([]rune(text))

	ents := make([]models.MessageEntity, 0, len(entities))
	for _, e := range entities {
		if _, ok := openTag(e); !ok || e.Length <= 0 || e.Offset < 0 || e.Offset >= len(units) {
			continue
		}
		ents = append(ents, e)
	}
	if len(ents) == 0 {
		return htmlEscaper.Replace(text)
	}
	sort.SliceStable(ents, func(i, j int) bool {
		if ents[i].Offset != ents[j].Offset {
			return ents[i].Offset < ents[j].Offset
		}
		return ents[i].Length > ents[j].Length
	})

	end := func(e models.MessageEntity) int {
		return min(e.Offset+e.Length, len(units))
	}

	var sb strings.Builder
	var stack []models.MessageEntity
	next, pos := 0, 0
	for {
		for len(stack) > 0 && end(stack[len(stack)-1]) <= pos {
			sb.WriteString(closeTag(stack[len(stack)-1]))
			stack = stack[:len(stack)-1]
		}
		if pos >= len(units) {
			break
		}
		for next < len(ents) && ents[next].Offset <= pos {
			tag, _ := openTag(ents[next])
			sb.WriteString(tag)
			stack = append(stack, ents[next])
			next++
		}

		boundary := len(units)
		if next < len(ents) && ents[next].Offset < boundary {
			boundary = ents[next].Offset
		}
		for _, e := range stack {
			if end(e) < boundary {
				boundary = end(e)
			}
		}
		if boundary <= pos {
			boundary = pos + 1
		}
		sb.WriteString(htmlEscaper.Replace(string(utf16.Decode(units[pos:boundary]))))
		pos = boundary
	}
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteString(closeTag(stack[i]))
	}

	return sb.String()
}

func openTag(e models.MessageEntity) (string, bool) {
	switch string(e.Type) {
	case "bold":
		return "<b>", true
	case "italic":
		return "<i>", true
	case "underline":
		return "<u>", true
	case "strikethrough":
		return "<s>", true
	case "spoiler":
		return "<tg-spoiler>", true
	case "code":
		return "<code>", true
	case "pre":
		if e.Language != "" {
			return `<pre><code class="language-` + attrEscaper.Replace(e.Language) + `">`, true
		}
		return "<pre>", true
	case "text_link":
		return `<a href="` + attrEscaper.Replace(e.URL) + `">`, true
	case "blockquote":
		return "<blockquote>", true
	case "expandable_blockquote":
		return "<blockquote expandable>", true
	}
	return "", false
}

func closeTag(e models.MessageEntity) string {
	switch string(e.Type) {
	case "bold":
		return "</b>"
	case "italic":
		return "</i>"
	case "underline":
		return "</u>"
	case "strikethrough":
		return "</s>"
	case "spoiler":
		return "</tg-spoiler>"
	case "code":
		return "</code>"
	case "pre":
		if e.Language != "" {
			return "</code></pre>"
		}
		return "</pre>"
	case "text_link":
		return "</a>"
	case "blockquote", "expandable_blockquote":
		return "</blockquote>"
	}
	return ""
}

// PlainText strips markup from Telegram HTML, leaving the visible text.
func PlainText(htmlText string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return htmlText
	}
	return doc.Text()
}
