package extractor

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language tags a supported source language.
type Language string

const (
	LangJava       Language = "java"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangGo         Language = "go"
)

var supportedExtensions = map[string]Language{
	".java": LangJava,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
	".mjs":  LangJavaScript,
	".cjs":  LangJavaScript,
	".py":   LangPython,
	".go":   LangGo,
}

// DetectLanguage maps a path's extension to a supported language.
func DetectLanguage(path string) (Language, bool) {
	lang, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// SupportedExtensions lists the recognized extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// SupportedLanguages lists the distinct supported languages, sorted.
func SupportedLanguages() []Language {
	seen := make(map[Language]bool)
	var langs []Language
	for _, lang := range supportedExtensions {
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}
