package controllers

import "github.com/datallboy/godl/internal/domain"

type CreateTaskRequest struct {
	Source string `json:"source"`
}

type CreateTaskResponse struct {
	ID domain.TaskID `json:"id"`
}
