package dto

import "time"

type PlanOutput struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SubjectIDs []string  `json:"subject_ids"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreatePlanInput struct {
	Name       string   `validate:"required"`
	SubjectIDs []string `validate:"dive,required"`
}
