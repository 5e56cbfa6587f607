package verification

import "proptoken/internal/domain"

type SubmitRequest struct {
	Kind       string                 `json:"kind" binding:"required,oneof=individual business"`
	Individual *domain.IndividualData `json:"individual,omitempty"`
	Business   *domain.BusinessData   `json:"business,omitempty"`
}

func (r *SubmitRequest) ToSubmissionData() *domain.SubmissionData {
	return &domain.SubmissionData{
		Kind:       domain.VerificationKind(r.Kind),
		Individual: r.Individual,
		Business:   r.Business,
	}
}

type DecisionRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}
