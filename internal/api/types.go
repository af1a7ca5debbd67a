package api

import "github.com/oneirolab/reverie/internal/dream"

// Wire envelopes for the /v1/dream endpoints.

type generatedConcept struct {
	Content string `json:"content"`
}

type newConceptsResponse struct {
	Concepts []generatedConcept `json:"concepts"`
}

type startDreamRequest struct {
	Concept1 string `json:"concept_1"`
	Concept2 string `json:"concept_2"`
}

type startDreamResponse struct {
	Success bool   `json:"success"`
	DreamID string `json:"dream_id"`
}

type getDreamResponse struct {
	Dream    dream.Dream     `json:"dream"`
	Concepts []dream.Concept `json:"concepts"`
}

type continueDreamResponse struct {
	Success bool `json:"success"`
}
