package domain

import "strings"

// Cart item keys identify a product + variant combination so that repeated
// additions of the same combination merge into one line item instead of
// duplicating. A key is either the bare product ID, or the product ID
// followed by labeled variant fields in canonical order (color before size):
//
//	9b4c...            (no variants)
//	9b4c...|color:red
//	9b4c...|color:red|size:M
//
// Keys are deterministic and reversible: splitting on '|' and ':' recovers
// the product ID and every present field.

const (
	cartKeyFieldSep = "|"
	cartKeyLabelSep = ":"
)

// CartItemKey derives the identity key for a product with the given variant
// options. Whitespace is trimmed and empty strings are treated as absent.
// Pure function; input order of the variant fields never affects the output.
func CartItemKey(productID, color, size string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(productID))

	if c := strings.TrimSpace(color); c != "" {
		b.WriteString(cartKeyFieldSep)
		b.WriteString("color")
		b.WriteString(cartKeyLabelSep)
		b.WriteString(c)
	}
	if s := strings.TrimSpace(size); s != "" {
		b.WriteString(cartKeyFieldSep)
		b.WriteString("size")
		b.WriteString(cartKeyLabelSep)
		b.WriteString(s)
	}

	return b.String()
}

// NormalizeVariant trims a variant field the same way key derivation does,
// so stored values always round-trip through CartItemKey.
func NormalizeVariant(s string) string {
	return strings.TrimSpace(s)
}

// ParseCartItemKey splits a cart item key back into its product ID and
// variant fields. Unknown labels are ignored so keys stay forward-compatible
// with additional variant dimensions.
func ParseCartItemKey(key string) (productID, color, size string) {
	parts := strings.Split(key, cartKeyFieldSep)
	productID = parts[0]

	for _, part := range parts[1:] {
		label, value, ok := strings.Cut(part, cartKeyLabelSep)
		if !ok {
			continue
		}
		switch label {
		case "color":
			color = value
		case "size":
			size = value
		}
	}

	return productID, color, size
}
