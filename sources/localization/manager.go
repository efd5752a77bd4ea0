package localization

import (
	"embed"
	"fmt"
	"strings"

	"coronabot/sources/configuration"
	"coronabot/sources/tracing"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localesFS embed.FS

type LocalizationManager struct {
	bundle *i18n.Bundle
	config *configuration.Config
	log    *tracing.Logger
}

func NewLocalizationManager(config *configuration.Config, log *tracing.Logger) (*LocalizationManager, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, lang := range config.Localization.SupportedLanguages {
		filename := fmt.Sprintf("locales/active.%s.toml", lang)

		data, err := localesFS.ReadFile(filename)
		if err != nil {
			log.E("Failed to read locale file", "filename", filename, tracing.InnerError, err)
			return nil, fmt.Errorf("failed to read locale file %s: %w", filename, err)
		}

		if _, err := bundle.ParseMessageFileBytes(data, filename); err != nil {
			log.E("Failed to parse locale file", "filename", filename, tracing.InnerError, err)
			return nil, fmt.Errorf("failed to parse locale file %s: %w", filename, err)
		}

		log.I("Loaded locale file", "filename", filename)
	}

	log.I("LocalizationManager initialized successfully")
	return &LocalizationManager{bundle: bundle, config: config, log: log}, nil
}

// Lang maps a transport language tag onto a supported catalog
// language, falling back to the configured default.
func (x *LocalizationManager) Lang(telegramCode string) string {
	lowerCode := strings.ToLower(telegramCode)

	for _, lang := range x.config.Localization.SupportedLanguages {
		if strings.HasPrefix(lowerCode, lang) {
			return lang
		}
	}

	return x.config.Localization.DefaultLanguage
}

func (x *LocalizationManager) Localize(lang, messageID string) string {
	return x.LocalizeTd(lang, messageID, nil)
}

func (x *LocalizationManager) LocalizeTd(lang, messageID string, templateData map[string]interface{}) string {
	localizer := i18n.NewLocalizer(x.bundle, lang, x.config.Localization.DefaultLanguage)

	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID, TemplateData: templateData})
	if err != nil {
		x.log.E("Failed to localize message", "message_id", messageID, tracing.InnerError, err)
		return messageID
	}

	return msg
}
