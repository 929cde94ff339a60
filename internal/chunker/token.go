package chunker

// EstimateTokenCount approximates LLM token usage as length/4. The integer
// division deliberately under-counts; budget arithmetic everywhere else is
// defined over this exact ratio, so do not swap in a real tokenizer.
func EstimateTokenCount(text string) int {
	return len(text) / 4
}
