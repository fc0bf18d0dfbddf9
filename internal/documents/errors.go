package documents

import "errors"

const (
	msgInvalidInvoiceType = "Invalid file type. Please upload an image or a PDF."
	msgParserUnavailable  = "Parser not available"
	msgCustomRequired     = "A custom question is required."
	msgInvalidPromptType  = "Invalid prompt type specified."
	msgInvalidPaperType   = "Invalid file type for analysis. Please upload an image, PDF, or text file."
	msgAssistantDown      = "Assistant not available"
	msgEmptyQuery         = "Query cannot be empty."
	msgChatFailed         = "Failed to get chat response: "
	msgFileRequired       = "file is required"
	msgPromptTypeRequired = "prompt_type is required"
	msgBodyTooLarge       = "request body too large"
	msgUnreadableFile     = "unable to read file"
)

// ErrNotConfigured is the cause reported when an upstream client was never built.
var ErrNotConfigured = errors.New("upstream client not configured")
