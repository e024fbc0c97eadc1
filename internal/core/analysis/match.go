package analysis

// firstFamily returns the first family that lists value.
func firstFamily(families []Family, value string) (Family, bool) {
	for _, f := range families {
		if f.contains(value) {
			return f, true
		}
	}
	return Family{}, false
}

// sameOrFamily reports whether a and b are equal or share the first family of a.
func sameOrFamily(families []Family, a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	f, ok := firstFamily(families, a)
	return ok && f.contains(b)
}

// ColorsMatch reports whether two colors count as the same for duplicate detection.
func (e *Engine) ColorsMatch(a, b string) bool {
	return sameOrFamily(e.catalog.ColorFamilies, a, b)
}

// SilhouettesMatch reports whether two silhouettes count as the same for duplicate detection.
func (e *Engine) SilhouettesMatch(a, b string) bool {
	return sameOrFamily(e.catalog.SilhouetteFamilies, a, b)
}
