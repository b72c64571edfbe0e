package domain

type FaqQuestion struct {
	QuestionText string `json:"question_text"`
}
