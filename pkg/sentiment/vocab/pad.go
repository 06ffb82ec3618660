package vocab

// PadSequence returns a slice of exactly maxLen ids. Short input is
// left-padded with zeros; long input loses its earliest ids. The tail of
// ids is always preserved.
func PadSequence(ids []int, maxLen int) []int {
	if maxLen <= 0 {
		return []int{}
	}
	out := make([]int, maxLen)
	if len(ids) >= maxLen {
		copy(out, ids[len(ids)-maxLen:])
		return out
	}
	copy(out[maxLen-len(ids):], ids)
	return out
}

// Encoding is the result of Encode.
type Encoding struct {
	Sequence  []int
	Dropped   []string
	Truncated int
}

// Encode runs TextToSequence and pads the result to maxLen.
func (v *Vocabulary) Encode(text string, maxLen int) Encoding {
	ids, dropped := v.TextToSequence(text)
	enc := Encoding{
		Sequence: PadSequence(ids, maxLen),
		Dropped:  dropped,
	}
	if len(ids) > maxLen {
		enc.Truncated = len(ids) - maxLen
	}
	return enc
}
