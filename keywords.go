package ldexpand

// JSON-LD keywords.
const (
	KeywordAny       = "@any"
	KeywordBase      = "@base"
	KeywordContainer = "@container"
	KeywordContext   = "@context"
	KeywordDefault   = "@default"
	KeywordDirection = "@direction"
	KeywordGraph     = "@graph"
	KeywordID        = "@id"
	KeywordImport    = "@import"
	KeywordIncluded  = "@included"
	KeywordIndex     = "@index"
	KeywordJSON      = "@json"
	KeywordLanguage  = "@language"
	KeywordList      = "@list"
	KeywordNest      = "@nest"
	KeywordNone      = "@none"
	KeywordNull      = "@null"
	KeywordPrefix    = "@prefix"
	KeywordPreserve  = "@preserve"
	KeywordPropagate = "@propagate"
	KeywordProtected = "@protected"
	KeywordReverse   = "@reverse"
	KeywordSet       = "@set"
	KeywordType      = "@type"
	KeywordValue     = "@value"
	KeywordVersion   = "@version"
	KeywordVocab     = "@vocab"
)

// IsKeyword returns if the string matches a known JSON-LD keyword.
func IsKeyword(s string) bool {
	return isKeyword(s)
}

// isKeyword returns if the string matches a known JSON-LD keyword.
func isKeyword(s string) bool {
	switch s {
	case KeywordBase,
		KeywordContainer,
		KeywordContext,
		KeywordDefault,
		KeywordDirection,
		KeywordGraph,
		KeywordID,
		KeywordImport,
		KeywordIncluded,
		KeywordIndex,
		KeywordJSON,
		KeywordLanguage,
		KeywordList,
		KeywordNest,
		KeywordNone,
		KeywordPrefix,
		KeywordPreserve,
		KeywordPropagate,
		KeywordProtected,
		KeywordReverse,
		KeywordSet,
		KeywordType,
		KeywordValue,
		KeywordVersion,
		KeywordVocab:
		return true
	default:
		return false
	}
}

// looksLikeKeyword reports if a string has the form "@" followed by one or
// more ASCII letters. Such strings are reserved for future keywords and are
// ignored with a warning wherever they appear as terms or values.
//
// A string like @blabla1 is not reserved, but using it is still asking for
// trouble.
func looksLikeKeyword(s string) bool {
	if len(s) < 2 || s[0] != '@' {
		return false
	}

	for _, char := range s[1:] {
		if (char < 'a' || char > 'z') &&
			(char < 'A' || char > 'Z') {
			return false
		}
	}

	return true
}
