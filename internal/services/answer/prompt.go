package answer

import "strings"

// persona opens every prompt
const persona = `You are an expert technical assistant for Fidgetech.
Use the following retrieved information to answer the user's question.
If the information does not contain the answer, state that you cannot find the answer in the provided documents.
Be concise and helpful.`

// noContext replaces the bullet list when retrieval found nothing above the floor
const noContext = "No relevant information found."

// FallbackAnswer is returned when the generator produced no usable text
const FallbackAnswer = "Sorry, I couldn't generate a response."

// BuildPrompt assembles the single-turn prompt from retrieved chunk texts and the question
func BuildPrompt(chunks []string, query string) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString("\n\nRetrieved Information:\n")

	if len(chunks) == 0 {
		b.WriteString(noContext)
	} else {
		for i, chunk := range chunks {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("- ")
			b.WriteString(chunk)
		}
	}

	b.WriteString("\n\nUser's Question: ")
	b.WriteString(query)
	return b.String()
}
