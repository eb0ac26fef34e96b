package xmlexport

import (
	"bytes"
	"encoding/xml"
	"html"
	"strings"
)

// mojibake maps UTF-8 accents that were decoded as Latin-1 once too often.
var mojibake = strings.NewReplacer(
	"Ã©", "é", "Ã¨", "è", "Ã¢", "â", "Ã´", "ô", "Ã»", "û", "Ã¼", "ü",
	"Ã«", "ë", "Ã¯", "ï", "Ã§", "ç", "Ã¹", "ù", "Ã®", "î", "Ã¡", "á",
	"Ã³", "ó", "Ã±", "ñ", "Ãª", "ê", "Ã ", "à",
)

// FixText undoes HTML entity encoding (nested too) and double UTF-8 encoding.
func FixText(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < 3; i++ {
		u := html.UnescapeString(s)
		if u == s {
			break
		}
		s = u
	}
	return mojibake.Replace(s)
}

// repairName rewrites the serialized form of a raw competition name into the
// serialized form of its repaired text. Platform names often arrive entity
// encoded ("Impos&eacute;"), which the XML encoder would otherwise keep as
// "Impos&amp;eacute;".
func repairName(doc []byte, raw string) []byte {
	fixed := FixText(raw)
	if raw == "" || fixed == raw {
		return doc
	}
	return bytes.ReplaceAll(doc, []byte(escape(raw)), []byte(escape(fixed)))
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
