package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Mr-Dark-debug/tempo/internal/database"
	"github.com/Mr-Dark-debug/tempo/internal/timeline"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Bundle holds the translations for every deck.
type Bundle struct {
	mu          sync.RWMutex
	bundle      *i18n.Bundle
	defaultLang language.Tag

	// langs holds the tags of the loaded message files. The i18n bundle
	// also reports its default tag, which may have no file at all.
	langs map[string]bool
}

// NewBundle returns an empty bundle whose fallback language is defaultLang.
func NewBundle(defaultLang string) (*Bundle, error) {
	tag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parsing default language %q: %w", defaultLang, err)
	}

	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	b.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	return &Bundle{bundle: b, defaultLang: tag, langs: map[string]bool{}}, nil
}

// LoadBundle parses every message file in dir. A missing or empty dir
// yields an empty bundle, so decks still play in their source language.
func LoadBundle(dir, defaultLang string) (*Bundle, error) {
	b, err := NewBundle(defaultLang)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return b, nil
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		log.Printf("[DEBUG] catalog: locales dir %s does not exist", dir)
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading locales dir %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !isMessageFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading message file %s: %w", path, err)
		}
		if err := b.AddMessageFile(data, path); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddMessageFile parses one message file. The language is taken from
// the file name, e.g. "es.yaml" or "active.pt-BR.json".
func (b *Bundle) AddMessageFile(data []byte, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	mf, err := b.bundle.ParseMessageFileBytes(data, path)
	if err != nil {
		return fmt.Errorf("parsing message file %s: %w", filepath.Base(path), err)
	}
	b.langs[mf.Tag.String()] = true
	return nil
}

// Languages returns the deck's source language followed by every
// language with at least one message file, sorted and de-duplicated.
func (b *Bundle) Languages(deck *database.Deck) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := map[string]bool{}
	var langs []string
	if deck != nil && deck.SourceLang != "" {
		langs = append(langs, deck.SourceLang)
		seen[deck.SourceLang] = true
	}

	var rest []string
	for s := range b.langs {
		if !seen[s] {
			seen[s] = true
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(langs, rest...)
}

// Localize returns the deck's steps in lang. Each missing message falls
// back to the bundle's default language, then to the deck source text, so
// the result always has exactly one step per deck step.
func (b *Bundle) Localize(deck *database.Deck, lang string) []timeline.Step {
	steps := make([]timeline.Step, len(deck.Steps))
	for i, st := range deck.Steps {
		steps[i] = timeline.Step{Title: st.Title, Body: st.Body}
	}

	if sameLanguage(lang, deck.SourceLang) {
		return steps
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.langs) == 0 {
		return steps
	}

	loc := i18n.NewLocalizer(b.bundle, lang)
	for i, st := range deck.Steps {
		steps[i].Title = lookup(loc, MessageID(deck.DeckID, st.Key, "title"), steps[i].Title)
		steps[i].Body = lookup(loc, MessageID(deck.DeckID, st.Key, "body"), steps[i].Body)
	}
	return steps
}

// Missing returns the message IDs of deck that have no translation in
// lang itself, ignoring fallbacks. Bodies only count when the source
// step has one. The source language is never missing anything.
func (b *Bundle) Missing(deck *database.Deck, lang string) []string {
	if sameLanguage(lang, deck.SourceLang) {
		return nil
	}
	want, err := language.Parse(lang)
	if err != nil {
		return allMessageIDs(deck)
	}
	wantBase, _ := want.Base()

	b.mu.RLock()
	defer b.mu.RUnlock()

	loc := i18n.NewLocalizer(b.bundle, lang)
	var missing []string
	for _, id := range allMessageIDs(deck) {
		_, tag, err := loc.LocalizeWithTag(&i18n.LocalizeConfig{MessageID: id})
		if err != nil {
			missing = append(missing, id)
			continue
		}
		if base, _ := tag.Base(); base != wantBase {
			missing = append(missing, id)
		}
	}
	return missing
}

// allMessageIDs lists the translatable messages of deck in step order.
func allMessageIDs(deck *database.Deck) []string {
	var ids []string
	for _, st := range deck.Steps {
		ids = append(ids, MessageID(deck.DeckID, st.Key, "title"))
		if st.Body != "" {
			ids = append(ids, MessageID(deck.DeckID, st.Key, "body"))
		}
	}
	return ids
}

func lookup(loc *i18n.Localizer, id, fallback string) string {
	s, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil || s == "" {
		return fallback
	}
	return s
}

// NormalizeLanguage canonicalizes a BCP 47 tag ("ES" -> "es").
func NormalizeLanguage(lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", lang, err)
	}
	return tag.String(), nil
}

func sameLanguage(a, b string) bool {
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	return ta == tb
}

func isMessageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
