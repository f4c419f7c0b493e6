package dto

import (
	"github.com/thankiuday/dreamlink/internal/app/models"
)

// PartnerResponse is one entry of a reconciled partner list
type PartnerResponse struct {
	UserID      int64    `json:"userId" example:"12"`
	DisplayName string   `json:"displayName" example:"Jane Doe"`
	Role        string   `json:"role" example:"STUDENT"`
	Tags        []string `json:"tags" example:"friend,room-member"`
}

// PartnerListResponse is the full reconciliation result for a subject
type PartnerListResponse struct {
	SubjectID int64             `json:"subjectId" example:"7"`
	Partners  []PartnerResponse `json:"partners"`
}

// ToPartnerResponse converts a partner view model to its response form
func ToPartnerResponse(partner *models.Partner) PartnerResponse {
	tags := make([]string, 0, len(partner.Tags))
	for _, tag := range partner.Tags {
		tags = append(tags, string(tag))
	}
	return PartnerResponse{
		UserID:      partner.UserID,
		DisplayName: partner.DisplayName,
		Role:        string(partner.Role),
		Tags:        tags,
	}
}
