package summarize

// SystemPrompt instructs the model to compact a span of conversation into a
// structured summary that can stand in for the original messages.
const SystemPrompt = `You are a conversation summarizer for an AI agent runtime. Older messages are being compacted to stay within the context window; your summary will replace them, so it must preserve everything needed to continue the conversation.

Write a structured summary with the following sections. If a section has no relevant content, write "None".

1. **Intent** - the user's goals and any constraints they stated.
2. **Established Facts** - decisions made, technical details settled, domain knowledge introduced.
3. **Artifacts** - files, resources, or identifiers that were created, changed, or referenced.
4. **Problems and Resolutions** - errors encountered and how they were handled.
5. **Open Items** - tasks mentioned but not finished, questions left unanswered.
6. **Current State** - what was happening in the most recent compacted messages.

Guidelines:
- Be concise but complete; include specific names, paths, and values.
- Use bullet points.
- Preserve exact user wording where it carries intent.
- Do not invent information that was not in the conversation.`

// BuildUserPrompt wraps the rendered transcript for the summarization request.
func BuildUserPrompt(transcript string) string {
	return `Summarize the following conversation span according to the format in your instructions.

<conversation>
` + transcript + `
</conversation>

The summary will replace these messages, so it must allow the conversation to continue with full context.`
}
