package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	msg := T("duplicate_symbol", nil)
	assert.Equal(t, "duplicate symbol", msg)

	SetLanguage("ja")
	assert.NotEqual(t, "duplicate symbol", T("duplicate_symbol", nil))

	// reset to en
	SetLanguage("en")
}

func TestTranslator_SymbolAndUnknownCode(t *testing.T) {
	assert.Equal(t, "unresolved reference Zoo.Lion", T("unresolved_reference", map[string]string{"symbol": "Zoo.Lion"}))
	assert.Equal(t, "no_such_code", T("no_such_code", nil))
}

type fixedTranslator struct{}

func (fixedTranslator) Message(code string, _ map[string]string) string { return "x:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(fixedTranslator{})
	defer SetTranslator(nil)
	assert.Equal(t, "x:duplicate_symbol", T("duplicate_symbol", nil))
}
