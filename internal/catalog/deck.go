// Package catalog loads timeline decks and their translations.
//
// A deck file is YAML holding the steps in their source language. A
// locales directory holds go-i18n message files (es.yaml, fr.json, ...)
// keyed "<deck>.<step>.title" and "<deck>.<step>.body". Localize merges
// the two into the []timeline.Step the controller displays.
package catalog

import (
	"fmt"
	"os"
	"regexp"

	"github.com/Mr-Dark-debug/tempo/internal/database"
	"gopkg.in/yaml.v3"
)

// keyPattern keeps deck and step keys usable as message ID segments.
var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// LoadDeckFile reads and validates a YAML deck file.
func LoadDeckFile(path string) (*database.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck %s: %w", path, err)
	}
	deck, err := ParseDeck(data)
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", path, err)
	}
	return deck, nil
}

// ParseDeck decodes and validates a YAML deck.
//
//	id: care-path
//	name: Care path
//	lang: es
//	interval: 12s
//	steps:
//	  - key: intake
//	    title: Primera consulta
//	    body: ...
func ParseDeck(data []byte) (*database.Deck, error) {
	var deck database.Deck
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("parsing deck: %w", err)
	}
	if err := ValidateDeck(&deck); err != nil {
		return nil, err
	}
	return &deck, nil
}

// ValidateDeck checks a deck and fills in defaults (name, source language).
func ValidateDeck(deck *database.Deck) error {
	if !keyPattern.MatchString(deck.DeckID) {
		return fmt.Errorf("invalid deck id %q: use lowercase letters, digits, '-' or '_'", deck.DeckID)
	}
	if deck.Name == "" {
		deck.Name = deck.DeckID
	}
	if deck.SourceLang == "" {
		deck.SourceLang = "en"
	}
	lang, err := NormalizeLanguage(deck.SourceLang)
	if err != nil {
		return err
	}
	deck.SourceLang = lang

	if deck.Interval < 0 {
		return fmt.Errorf("invalid interval %s: must not be negative", deck.Interval)
	}
	if len(deck.Steps) == 0 {
		return fmt.Errorf("deck %s has no steps", deck.DeckID)
	}

	seen := make(map[string]bool, len(deck.Steps))
	for i, st := range deck.Steps {
		if !keyPattern.MatchString(st.Key) {
			return fmt.Errorf("step %d: invalid key %q", i+1, st.Key)
		}
		if seen[st.Key] {
			return fmt.Errorf("step %d: duplicate key %q", i+1, st.Key)
		}
		seen[st.Key] = true
		if st.Title == "" {
			return fmt.Errorf("step %d (%s): title is required", i+1, st.Key)
		}
	}
	return nil
}

// MessageID returns the translation ID for one field of a deck step.
func MessageID(deckID, stepKey, field string) string {
	return deckID + "." + stepKey + "." + field
}
