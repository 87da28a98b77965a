package dto

import "github.com/LiuTengYing/AI-Support-Widget/internal/models"

type CreateEntryRequest struct {
	Type       string `json:"type" validate:"required,oneof=qa content"`
	Question   string `json:"question"`
	Answer     string `json:"answer" validate:"required"`
	Keywords   string `json:"keywords"`
	CategoryID *int64 `json:"category_id"`
}

// UpdateEntryRequest is a partial update: only the fields present in the
// request body are applied, the rest keep their stored values.
type UpdateEntryRequest struct {
	Type       *string `json:"type" validate:"omitempty,oneof=qa content"`
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Keywords   *string `json:"keywords"`
	CategoryID *int64  `json:"category_id"`
}

type EntryResponse struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Keywords   string `json:"keywords"`
	CategoryID *int64 `json:"category_id,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

func NewEntryResponse(entry *models.KnowledgeEntry) EntryResponse {
	return EntryResponse{
		ID:         entry.ID,
		Type:       string(entry.Type),
		Question:   entry.Question,
		Answer:     entry.Answer,
		Keywords:   entry.Keywords,
		CategoryID: entry.CategoryID,
		CreatedAt:  entry.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  entry.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func NewCategoryResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ParentID:    category.ParentID,
	}
}
