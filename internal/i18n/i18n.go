// Package i18n resolves message keys to localized text.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported lists the available locales; the first is the fallback.
var Supported = []language.Tag{language.English, language.Turkish}

var matcher = language.NewMatcher(Supported)

// Translator looks up message keys in a per-locale catalog.
// Unknown keys are returned verbatim.
type Translator struct {
	catalog *catalog.Builder
}

func NewTranslator() *Translator {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			// Keys are static, so SetString can only fail on programmer error.
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return &Translator{catalog: b}
}

// Translate returns the text for key in locale.
func (t *Translator) Translate(key string, locale language.Tag) string {
	p := message.NewPrinter(locale, message.Catalog(t.catalog))
	return p.Sprintf(key)
}

// Match picks the supported locale that best fits an Accept-Language header value.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Supported[0]
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Supported[0]
	}
	return Supported[index]
}
