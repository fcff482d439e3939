package domain

import (
	"fmt"
	"strings"
)

// Language is a Steam store language code
type Language string

const (
	LanguageEnglish    Language = "english"
	LanguageGerman     Language = "german"
	LanguageFrench     Language = "french"
	LanguageSpanish    Language = "spanish"
	LanguageRussian    Language = "russian"
	LanguageSChinese   Language = "schinese"
	LanguageTChinese   Language = "tchinese"
	LanguageJapanese   Language = "japanese"
	LanguageKorean     Language = "korean"
	LanguageItalian    Language = "italian"
	LanguagePortuguese Language = "portuguese"
	LanguageBrazilian  Language = "brazilian"
	LanguagePolish     Language = "polish"
	LanguageDutch      Language = "dutch"
	LanguageSwedish    Language = "swedish"
	LanguageTurkish    Language = "turkish"
)

// DefaultLanguage is used for new stores and unset configuration
const DefaultLanguage = LanguageEnglish

var knownLanguages = map[Language]bool{
	LanguageEnglish: true, LanguageGerman: true, LanguageFrench: true, LanguageSpanish: true,
	LanguageRussian: true, LanguageSChinese: true, LanguageTChinese: true, LanguageJapanese: true,
	LanguageKorean: true, LanguageItalian: true, LanguagePortuguese: true, LanguageBrazilian: true,
	LanguagePolish: true, LanguageDutch: true, LanguageSwedish: true, LanguageTurkish: true,
}

// ParseLanguage validates a language code (case-insensitive).
// An empty string yields DefaultLanguage.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLanguage, nil
	}
	lang := Language(s)
	if !knownLanguages[lang] {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
	return lang, nil
}

// Languages returns every supported language code
func Languages() []Language {
	return []Language{
		LanguageEnglish, LanguageGerman, LanguageFrench, LanguageSpanish,
		LanguageRussian, LanguageSChinese, LanguageTChinese, LanguageJapanese,
		LanguageKorean, LanguageItalian, LanguagePortuguese, LanguageBrazilian,
		LanguagePolish, LanguageDutch, LanguageSwedish, LanguageTurkish,
	}
}
