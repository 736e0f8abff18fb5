package similarity

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// KeywordConfig controls address keyword extraction. Deployments tune the
// stopword list and unit-number prefixes per region via a YAML file; the
// compiled-in defaults cover Turkish rent receipts.
type KeywordConfig struct {
	// Stopwords are tokens that look address-like but carry no location
	// information (month names, currency codes, transfer jargon).
	Stopwords []string `yaml:"stopwords"`

	// NumberPrefixes are labels whose trailing number identifies a unit,
	// e.g. "DAIRE:8" -> keyword "DAIRE_8".
	NumberPrefixes []string `yaml:"number_prefixes"`

	// MinTokenLen/MaxTokenLen bound the plain tokens considered as
	// location keywords.
	MinTokenLen int `yaml:"min_token_len"`
	MaxTokenLen int `yaml:"max_token_len"`

	// prefixPatterns holds one compiled pattern per NumberPrefixes entry,
	// quoted so a configured prefix can never be misread as regex syntax.
	prefixPatterns []*regexp.Regexp
}

// DefaultKeywordConfig returns the built-in extraction configuration.
func DefaultKeywordConfig() KeywordConfig {
	cfg := KeywordConfig{
		Stopwords: []string{
			"KIRA", "RENT", "ODEME", "BEDELI",
			"OCAK", "SUBAT", "MART", "NISAN", "MAYIS", "HAZIRAN",
			"TEMMUZ", "AGUSTOS", "EYLUL", "EKIM", "KASIM", "ARALIK",
			"TL", "TRY", "USD", "EUR",
			"FAST", "HAVALE", "EFT", "MESAJ",
		},
		NumberPrefixes: []string{"DAIRE", "KAT", "NO"},
		MinTokenLen:    3,
		MaxTokenLen:    15,
	}
	cfg.compilePrefixPatterns()
	return cfg
}

// LoadKeywordConfig reads a KeywordConfig from a YAML file. Fields left
// empty in the file fall back to the defaults.
func LoadKeywordConfig(path string) (KeywordConfig, error) {
	cfg := DefaultKeywordConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading keyword config %s: %w", path, err)
	}

	var loaded KeywordConfig
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return cfg, fmt.Errorf("parsing keyword config %s: %w", path, err)
	}

	if len(loaded.Stopwords) > 0 {
		cfg.Stopwords = loaded.Stopwords
	}
	if len(loaded.NumberPrefixes) > 0 {
		cfg.NumberPrefixes = loaded.NumberPrefixes
	}
	if loaded.MinTokenLen > 0 {
		cfg.MinTokenLen = loaded.MinTokenLen
	}
	if loaded.MaxTokenLen > 0 {
		cfg.MaxTokenLen = loaded.MaxTokenLen
	}
	cfg.compilePrefixPatterns()
	return cfg, nil
}

// compilePrefixPatterns builds the unit-number patterns once per config.
// QuoteMeta keeps a prefix like "NO." from panicking the extraction path.
func (c *KeywordConfig) compilePrefixPatterns() {
	c.prefixPatterns = make([]*regexp.Regexp, len(c.NumberPrefixes))
	for i, prefix := range c.NumberPrefixes {
		c.prefixPatterns[i] = regexp.MustCompile(regexp.QuoteMeta(prefix) + `[:\s]*([0-9]+)`)
	}
}

// numberPrefixPatterns returns the compiled patterns, compiling on first
// use for configs built as plain literals.
func (c KeywordConfig) numberPrefixPatterns() []*regexp.Regexp {
	if len(c.prefixPatterns) == len(c.NumberPrefixes) {
		return c.prefixPatterns
	}
	clone := c
	clone.compilePrefixPatterns()
	return clone.prefixPatterns
}

func (c KeywordConfig) stopwordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Stopwords))
	for _, w := range c.Stopwords {
		set[w] = struct{}{}
	}
	return set
}
