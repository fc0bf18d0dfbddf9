package llm

import "fmt"

const documentPromptTemplate = `Based *only* on the following document text, answer the user's question.
Do not use any external knowledge. If the answer cannot be found in the text,
state that the information is not present in the document.

--- DOCUMENT TEXT START ---
%s
--- DOCUMENT TEXT END ---

--- QUESTION ---
%s
`

// DocumentPrompt builds the grounded single-document prompt.
func DocumentPrompt(question, documentText string) string {
	return fmt.Sprintf(documentPromptTemplate, documentText, question)
}
