package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var jsonUnmarshal = json.Unmarshal

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var (
	bundle      *i18n.Bundle
	defaultLang string
)

// Init loads the translation bundle with lang as the fallback language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("json", jsonUnmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	bundle = b
	defaultLang = lang
	return nil
}

// NewLocalizer creates a localizer for the given language.
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// WithLocalizer stores a localizer in the context.
func WithLocalizer(ctx context.Context, loc *i18n.Localizer) context.Context {
	return context.WithValue(ctx, ctxKey{}, loc)
}

func localizerFromCtx(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(ctxKey{}).(*i18n.Localizer); ok {
		return loc
	}
	return i18n.NewLocalizer(bundle, defaultLang)
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: data,
	})
}

// Tpd translates a pluralized message by ID. Count is added to data.
func Tpd(ctx context.Context, msgID string, count int, data map[string]any) string {
	td := map[string]any{"Count": count}
	for k, v := range data {
		td[k] = v
	}
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: td,
	})
}

func localize(ctx context.Context, cfg *i18n.LocalizeConfig) string {
	s, err := localizerFromCtx(ctx).Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}
