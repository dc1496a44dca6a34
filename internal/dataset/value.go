package dataset

// Kind discriminates the possible states of a table cell.
type Kind int

const (
	// KindMissing marks an absent cell (empty CSV field or a dropped value).
	KindMissing Kind = iota
	// KindText marks a raw free-text cell.
	KindText
	// KindNumber marks a derived numeric cell.
	KindNumber
	// KindBool marks a derived boolean indicator cell.
	KindBool
)

// Value is a tagged table cell. Raw columns start as text (or missing) and
// extraction stages replace them with numbers and booleans.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

// Missing returns an absent cell.
func Missing() Value { return Value{kind: KindMissing} }

// Text returns a text cell.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number returns a numeric cell.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean cell.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports the cell kind.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is absent.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// AsText returns the text content. The second result is false for non-text cells.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// AsNumber returns the numeric content. The second result is false for
// non-numeric cells.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the boolean content. The second result is false for
// non-boolean cells.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Feature converts a derived cell to its numeric feature representation.
// Booleans map to 0/1. The second result is false for text and missing cells,
// which have no numeric representation.
func (v Value) Feature() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
