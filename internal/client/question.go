package client

// QuestionRequest is the body of POST /api/question-and-answer
type QuestionRequest struct {
	Question string `json:"question"`
}

// AnswerResponse is the success body of the Q&A service. Fields other than
// response are ignored.
type AnswerResponse struct {
	Response *string `json:"response"`
}

// HealthResponse is what the Q&A service answers on its root path
type HealthResponse struct {
	Status string `json:"status"`
}
