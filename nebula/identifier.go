package nebula

// reservedKeywords are Nebula Graph keywords that may not be used as bare
// schema identifiers.
var reservedKeywords = map[string]struct{}{
	"SPACE": {}, "TAG": {}, "EDGE": {}, "VERTEX": {}, "INDEX": {},
	"INSERT": {}, "UPDATE": {}, "DELETE": {}, "WHERE": {}, "YIELD": {},
}

// MaxIdentifierLength is the Nebula Graph limit on identifier length.
const MaxIdentifierLength = 128

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// isBareIdentifier reports whether name matches [A-Za-z_][A-Za-z0-9_]*.
func isBareIdentifier(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentPart(name[i]) {
			return false
		}
	}
	return true
}

// ValidIdentifier reports whether name may be used as a tag, edge or
// property identifier: non-empty, at most MaxIdentifierLength characters,
// shaped like [A-Za-z_][A-Za-z0-9_]* and not a reserved keyword.
func ValidIdentifier(name string) bool {
	if name == "" || len(name) > MaxIdentifierLength {
		return false
	}
	if _, reserved := reservedKeywords[name]; reserved {
		return false
	}
	return isBareIdentifier(name)
}

// QuoteIdentifier wraps name in backticks only when it cannot stand bare in
// a statement. Valid identifier shapes are emitted unchanged.
func QuoteIdentifier(name string) string {
	if isBareIdentifier(name) {
		return name
	}
	return "`" + name + "`"
}

// IndexName derives the deterministic index identifier for a property of a
// tag or edge.
func IndexName(element, property string) string {
	return element + "_" + property + "_idx"
}
