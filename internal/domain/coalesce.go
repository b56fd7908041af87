package domain

// CoalesceStr returns the first non-empty value.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// DerefInt returns *p, or fallback when p is nil.
func DerefInt(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

// Float64OrDefault returns v when positive. Zero and negative hours on a
// profile mean "not overridden".
func Float64OrDefault(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
