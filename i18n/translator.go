package i18n

import "strings"

// Translator retrieves localized messages for diagnostic codes.
// data provides optional metadata to embed in the message (for example,
// "symbol" or "namespace").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "duplicate_symbol":
			msg = "シンボルが重複しています"
		case "unresolved_reference":
			msg = "参照を解決できません"
		case "incompatible_union_type":
			msg = "ユニオンのバリアント型が一致しません"
		case "missing_discriminator":
			msg = "判別子フィールドがありません"
		case "inconsistent_discriminator":
			msg = "判別子フィールドが一致しません"
		case "unsupported_type_kind":
			msg = "サポートされていない型です"
		}
	default: // "en"
		switch code {
		case "duplicate_symbol":
			msg = "duplicate symbol"
		case "unresolved_reference":
			msg = "unresolved reference"
		case "incompatible_union_type":
			msg = "incompatible union variant type"
		case "missing_discriminator":
			msg = "missing discriminator field"
		case "inconsistent_discriminator":
			msg = "inconsistent discriminator field"
		case "unsupported_type_kind":
			msg = "unsupported type kind"
		}
	}
	if msg == "" {
		return code
	}
	if sym := data["symbol"]; sym != "" {
		msg += " " + quote(sym)
	}
	return msg
}

func quote(s string) string {
	if strings.ContainsAny(s, " \t") {
		return "\"" + s + "\""
	}
	return s
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
