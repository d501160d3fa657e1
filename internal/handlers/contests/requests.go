package contests

import "gitlab.com/fcv-2025.net/codearena/internal/domain"

// listContestsQuery is decoded from the query string of GET /contests.
type listContestsQuery struct {
	Page   int    `schema:"page"`
	Limit  int    `schema:"limit"`
	Status string `schema:"status"`
	Search string `schema:"search"`
	Sort   string `schema:"sort"`
}

// SubmitRequest is the body of a contest problem submission
type SubmitRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type RegisterResponse struct {
	Message     string              `json:"message"`
	Participant *domain.Participant `json:"participant"`
}
