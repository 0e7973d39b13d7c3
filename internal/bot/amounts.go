package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// parseAmountMinor converts a decimal string with up to 2 fractional
// digits into minor units. Amounts must be positive.
func parseAmountMinor(s string) (int64, error) {
	v, err := parseMinor(s)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, fmt.Errorf("amount must be > 0")
	}

	return v, nil
}

// parseMinor accepts any non-negative decimal with up to 2 fractional
// digits; the override path sets fields to zero through this.
func parseMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount required")
	}

	// "-0.50" would slip past the integer-part sign check below.
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("amount must not be negative")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("invalid amount")
	}

	intPart := parts[0]
	frac := "00"
	if len(parts) == 2 {
		if len(parts[1]) > 2 || parts[1] == "" {
			return 0, fmt.Errorf("amount supports up to 2 decimals")
		}
		frac = parts[1] + strings.Repeat("0", 2-len(parts[1]))
	}

	ip, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount integer")
	}
	fp, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount fractional")
	}

	if ip < 0 {
		return 0, fmt.Errorf("amount must not be negative")
	}

	return ip*100 + fp, nil
}

// parseGold parses a positive whole gold amount.
func parseGold(s string) (int64, error) {
	g, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid gold amount")
	}
	if g <= 0 {
		return 0, fmt.Errorf("gold amount must be > 0")
	}

	return g, nil
}

// formatMinor renders minor units as "123.45".
func formatMinor(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
