package hexscript

// clampRange implements the shared clamping rule used by
// string.substring and array.slice (§4.1, §8): both bounds clamp into
// [0, length]; start > end yields an empty result.
func clampRange(start, end, length int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > length {
		start = length
	}
	if end < 0 {
		end = 0
	}
	if end > length {
		end = length
	}
	if start > end {
		return start, start
	}
	return start, end
}

func optionalInt(args []Value, idx int, def int) (int, bool) {
	if idx >= len(args) {
		return def, true
	}
	if args[idx].Kind() != KindNumber {
		return 0, false
	}
	return int(args[idx].Number()), true
}
