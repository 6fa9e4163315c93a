package rag

import "strings"

// chunkText groups non-empty lines into chunks of roughly targetTokens,
// seeding each chunk with about overlapTokens from the tail of the previous
// one. A single line longer than the target is split on word boundaries.
func chunkText(text string, targetTokens, overlapTokens int) []string {
	if targetTokens <= 0 {
		targetTokens = 400
	}
	if overlapTokens < 0 || overlapTokens >= targetTokens {
		overlapTokens = 0
	}

	var (
		chunks []string
		buf    []string
		tokSum int
		// fresh counts lines added since the last flush, so a trailing overlap
		// alone never becomes its own chunk.
		fresh int
	)

	flush := func() {
		if fresh == 0 {
			return
		}
		chunks = append(chunks, strings.Join(buf, "\n"))
		fresh = 0

		if overlapTokens == 0 {
			buf = buf[:0]
			tokSum = 0
			return
		}

		var keep []string
		remain := overlapTokens
		for j := len(buf) - 1; j >= 0 && remain > 0; j-- {
			t := approxTokens(buf[j])
			if t > overlapTokens {
				break
			}
			keep = append([]string{buf[j]}, keep...)
			remain -= t
		}
		buf = keep

		tokSum = 0
		for _, s := range buf {
			tokSum += approxTokens(s)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, frag := range splitLong(line, targetTokens) {
			t := approxTokens(frag)
			if fresh > 0 && tokSum+t > targetTokens {
				flush()
			}
			buf = append(buf, frag)
			tokSum += t
			fresh++
		}
	}
	flush()

	return chunks
}

func splitLong(line string, targetTokens int) []string {
	if approxTokens(line) <= targetTokens {
		return []string{line}
	}

	var (
		out   []string
		words []string
		toks  int
	)
	for _, w := range strings.Fields(line) {
		t := approxTokens(w) + 1
		if toks+t > targetTokens && len(words) > 0 {
			out = append(out, strings.Join(words, " "))
			words = words[:0]
			toks = 0
		}
		words = append(words, w)
		toks += t
	}
	if len(words) > 0 {
		out = append(out, strings.Join(words, " "))
	}
	return out
}

// approxTokens estimates about four characters per token.
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}
