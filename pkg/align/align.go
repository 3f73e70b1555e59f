// Package align provides the integer arithmetic used for stack and struct layout.
package align

// Padding returns the number of bytes that must be added to val so that it
// becomes a multiple of to. A non-positive boundary never requires padding.
func Padding(val, to int) int {
	if to <= 0 {
		return 0
	}
	if val%to == 0 {
		return 0
	}
	// 21 aligned to 4: 4 - (21 % 4) = 3
	return to - (val%to)%to
}

// Value rounds val up to the next multiple of to.
func Value(val, to int) int {
	if to == 0 {
		return val
	}
	if val%to != 0 {
		val += Padding(val, to)
	}
	return val
}

// ValueTreatPositive aligns val away from zero, so -5 aligned to 4 gives -8
// rather than -4. The boundary must not be negative.
func ValueTreatPositive(val, to int) int {
	if to < 0 {
		panic("align: negative boundary")
	}
	if val < 0 {
		return -Value(-val, to)
	}
	return Value(val, to)
}

// SumPadding adds up a set of padding amounts.
func SumPadding(paddings ...int) int {
	total := 0
	for _, p := range paddings {
		total += p
	}
	return total
}
