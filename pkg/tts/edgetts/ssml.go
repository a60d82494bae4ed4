package edgetts

import (
	"fmt"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// buildSSML wraps text in a speak/voice envelope. A prosody element is
// added only when pitch or rate deviates from the voice default.
func buildSSML(voice, pitch, rate, text string) string {
	escaped := xmlEscaper.Replace(text)

	body := escaped
	if pitch != "" || rate != "" {
		if pitch == "" {
			pitch = "+0Hz"
		}
		if rate == "" {
			rate = "+0%"
		}
		body = fmt.Sprintf("<prosody pitch='%s' rate='%s'>%s</prosody>", pitch, rate, escaped)
	}

	return fmt.Sprintf("<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'><voice name='%s'>%s</voice></speak>",
		voice, body)
}
