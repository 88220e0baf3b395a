// Package i18n resolves user-facing messages for the locales shipped with the service.
package i18n

import (
	"embed"
	"encoding/json"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

type Translator struct {
	bundle      *goi18n.Bundle
	defaultLang string
}

// New builds a translator over the embedded locale files. defaultLang is the
// fallback used when the requested language has no translation.
func New(defaultLang string) (*Translator, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, errors.Wrapf(err, "i18n: default language %q", defaultLang)
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, "locales/"+e.Name()); err != nil {
			return nil, errors.Wrapf(err, "i18n: load %s", e.Name())
		}
	}

	return &Translator{bundle: bundle, defaultLang: tag.String()}, nil
}

// Load adds a message file from disk on top of the embedded ones.
func (t *Translator) Load(path string) error {
	_, err := t.bundle.LoadMessageFile(path)
	return err
}

// Localize never fails: missing translations fall back to the default
// language and finally to the message id itself.
func (t *Translator) Localize(lang, messageID string, data map[string]interface{}) string {
	localizer := goi18n.NewLocalizer(t.bundle, lang, t.defaultLang)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return messageID
	}
	return msg
}

func (t *Translator) Languages() []string {
	tags := t.bundle.LanguageTags()
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.String()
	}
	return out
}
