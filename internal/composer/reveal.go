package composer

import "regexp"

// wordChunkPattern matches one run of non-whitespace plus its trailing
// whitespace, so joining all chunks reproduces the input exactly.
var wordChunkPattern = regexp.MustCompile(`\S+\s*`)

// WordChunks splits content into reveal units on word boundaries.
func WordChunks(value string) []string {
	if value == "" {
		return nil
	}
	chunks := wordChunkPattern.FindAllString(value, -1)
	if chunks == nil {
		// Whitespace-only content has no word runs; reveal it whole.
		return []string{value}
	}
	return chunks
}

// startReveal clears the visible content and queues the chunks of full for
// progressive appending. Starting a new reveal discards any pending one.
func (s *Session) startReveal(full string) {
	s.setContent("")
	s.cursor = 0
	s.reveal = WordChunks(full)
	if len(s.reveal) == 0 {
		s.setContent(full)
		s.cursor = len(s.content)
	}
}

// Revealing reports whether chunks are still pending.
func (s *Session) Revealing() bool { return len(s.reveal) > 0 }

// RevealNext appends the next pending chunk to the visible content and
// reports whether more remain. The cursor tracks the end of the text so the
// editor lands ready for typing.
func (s *Session) RevealNext() bool {
	if len(s.reveal) == 0 {
		return false
	}
	s.content = append(s.content, []rune(s.reveal[0])...)
	s.reveal = s.reveal[1:]
	s.cursor = len(s.content)
	return len(s.reveal) > 0
}

// CancelReveal drops pending chunks without completing them. Used when the
// modal closes mid-reveal so no timer keeps firing into a dead session.
func (s *Session) CancelReveal() { s.reveal = nil }
