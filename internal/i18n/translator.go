package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	LanguageEn = "en"
	LanguageFr = "fr"
)

// Flash message IDs.
const (
	FlashUserExists      = "flashUserExists"
	FlashUnknownUser     = "flashUnknownUser"
	FlashWrongPassword   = "flashWrongPassword"
	FlashLoginRequired   = "flashLoginRequired"
	FlashInvalidDate     = "flashInvalidDate"
	FlashInvalidTitle    = "flashInvalidTitle"
	FlashInvalidDetails  = "flashInvalidDetails"
	FlashTaskNotFound    = "flashTaskNotFound"
	FlashInvalidUsername = "flashInvalidUsername"
	FlashInvalidPassword = "flashInvalidPassword"
)

//go:embed translation/*.toml
var translationFS embed.FS

type Translator struct {
	bundle *goi18n.Bundle
}

// New loads every embedded translation file. English is the fallback.
func New() (*Translator, error) {
	return newFromFS(translationFS, "translation")
}

func newFromFS(fsys fs.FS, dir string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("list translation folder: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(fsys, dir+"/"+f.Name()); err != nil {
			return nil, fmt.Errorf("load translation file %s: %w", f.Name(), err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Localize resolves a message ID for the languages listed in an
// Accept-Language header. Unknown IDs are returned unchanged.
func (t *Translator) Localize(messageID, acceptLanguage string) string {
	localizer := goi18n.NewLocalizer(t.bundle, acceptLanguage, LanguageEn)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		zap.L().Warn("missing translation", zap.String("message_id", messageID), zap.Error(err))
		return messageID
	}
	return msg
}
