package token

// phpNames maps token names produced by PHP's token_get_all (after
// token_name) and single-character tokens to sniff kinds.
var phpNames = map[string]Kind{
	"T_FUNCTION":                            Function,
	"T_STRING":                              Ident,
	"T_VARIABLE":                            Variable,
	"T_WHITESPACE":                          Whitespace,
	"T_ELLIPSIS":                            Ellipsis,
	"T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG": Ampersand,
	"T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG": Ampersand,
	// #[ открывает атрибут и закрывается обычной ]
	"T_ATTRIBUTE": LBracket,
	"#[":          LBracket,
	"(":           LParen,
	")":           RParen,
	"[":           LBracket,
	"]":           RBracket,
	",":           Comma,
	"=":           Equal,
	"&":           Ampersand,
	"...":         Ellipsis,
}

// LookupName возвращает Kind для имени токена PHP или односимвольного токена.
// Неизвестные имена дают Other и false.
func LookupName(name string) (Kind, bool) {
	k, ok := phpNames[name]
	if !ok {
		return Other, false
	}
	return k, true
}

// CanonicalName returns the PHP token name used when writing dumps.
// Kinds without a named PHP token round-trip through their literal text.
func CanonicalName(k Kind, text string) string {
	switch k {
	case Function:
		return "T_FUNCTION"
	case Ident:
		return "T_STRING"
	case Variable:
		return "T_VARIABLE"
	case Whitespace:
		return "T_WHITESPACE"
	case Ellipsis:
		return "T_ELLIPSIS"
	case Ampersand:
		return "&"
	case LBracket:
		if text == "#[" {
			return "T_ATTRIBUTE"
		}
		return text
	case LParen, RParen, RBracket, Comma, Equal:
		return text
	default:
		return ""
	}
}
