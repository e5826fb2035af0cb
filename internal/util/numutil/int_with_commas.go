package numutil

import "strconv"

// IntWithCommas returns a string representation of an integer with a comma
// between every group of three digits.
//
// Example:
//
//	12345 -> "12,345"
func IntWithCommas(i int) string {
	digits := strconv.Itoa(i)
	sign := ""
	if digits[0] == '-' {
		sign, digits = "-", digits[1:]
	}

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}

	out := []byte(sign + digits[:head])
	for rest := digits[head:]; len(rest) > 0; rest = rest[3:] {
		out = append(out, ',')
		out = append(out, rest[:3]...)
	}
	return string(out)
}
