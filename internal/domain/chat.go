package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	InstructionDefault = "default"
	InstructionAdvice  = "advice"
)

// DocumentLink es una referencia a un documento citado en una respuesta.
type DocumentLink struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// ChatMessage es la forma uniforme que recibe la UI, tanto en exito como en error.
type ChatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	URLs       []DocumentLink `json:"urls,omitempty"`
	IsExpanded *bool          `json:"isExpanded,omitempty"`
}

// ChatTurn es un turno previo de la conversacion enviado como contexto.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AssistantMessage arma un mensaje del asistente sin referencias.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// InstructionFor traduce el input_type del cliente al instruction_type del backend.
func InstructionFor(inputType string) string {
	if inputType == InstructionAdvice {
		return InstructionAdvice
	}
	return InstructionDefault
}
