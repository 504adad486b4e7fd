package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "found").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	expected, found := data["expected"], data["found"]
	switch t.lang {
	case "ja":
		if expected != "" && found != "" {
			return expected + " を期待しましたが、" + found + " が見つかりました"
		}
		if expected != "" {
			return expected + " を期待しました"
		}
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "invalid_format":
			return "値の形式が不正です"
		case "required":
			return "必須キーが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "no_alternative":
			return "どの代替スキーマにも一致しません"
		case "transform_error":
			return "変換に失敗しました"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		if expected != "" && found != "" {
			return "expected " + expected + ", found " + found
		}
		if expected != "" {
			return "expected " + expected
		}
		switch code {
		case "invalid_type":
			return "invalid type"
		case "invalid_format":
			return "invalid value format"
		case "required":
			return "required key missing"
		case "unknown_key":
			return "unknown key"
		case "no_alternative":
			return "none of alternatives valid"
		case "transform_error":
			return "transform failed"
		case "parse_error":
			return "parse error"
		}
	}
	return code
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
