package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := map[string]Language{
		"src/App.java":   LangJava,
		"web/index.TS":   LangTypeScript,
		"web/view.tsx":   LangTypeScript,
		"lib/util.js":    LangJavaScript,
		"lib/config.cjs": LangJavaScript,
		"tools/run.py":   LangPython,
		"cmd/main.go":    LangGo,
	}
	for path, want := range tests {
		got, ok := DetectLanguage(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	for _, path := range []string{"README.md", "Makefile", "main.rs"} {
		_, ok := DetectLanguage(path)
		assert.False(t, ok, path)
	}
}

func TestSupportedLanguages(t *testing.T) {
	assert.Equal(t, []Language{LangGo, LangJava, LangJavaScript, LangPython, LangTypeScript}, SupportedLanguages())
	assert.Contains(t, SupportedExtensions(), ".mjs")
	for _, lang := range SupportedLanguages() {
		_, err := NewExtractor(lang)
		assert.NoError(t, err, lang)
	}
}
