package dto

import "assistant-connector/internal/domain/entities"

// ChatCompletionRequest is the JSON body sent to the chat completion
// endpoint.
type ChatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []entities.ChatTurn `json:"messages"`
	Temperature float64             `json:"temperature"`
}

// ChatCompletionResponse carries the subset of the completion reply
// the connector reads.
type ChatCompletionResponse struct {
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
