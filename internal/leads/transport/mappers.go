package transport

import "stayportal_backend/internal/leads/repository"

func ToLeadResponse(lead repository.Lead) LeadResponse {
	return LeadResponse{
		ID:                 lead.ID,
		AccommodationID:    lead.AccommodationID,
		AccommodationName:  lead.AccommodationName,
		Name:               lead.Name,
		Phone:              lead.Phone,
		Email:              lead.Email,
		PreferredCallTime:  lead.PreferredCallTime,
		Message:            lead.Message,
		SourceURL:          lead.SourceURL,
		Status:             string(lead.Status),
		Priority:           string(lead.Priority),
		AssignedOperatorID: lead.AssignedOperatorID,
		AssignedAt:         lead.AssignedAt,
		LastContactedAt:    lead.LastContactedAt,
		ConvertedAt:        lead.ConvertedAt,
		ConversionValue:    lead.ConversionValue,
		ScheduledCallDate:  lead.ScheduledCallDate,
		CreatedAt:          lead.CreatedAt,
		UpdatedAt:          lead.UpdatedAt,
	}
}

func ToLeadListItemResponse(item repository.LeadListItem) LeadListItemResponse {
	resp := LeadListItemResponse{
		LeadResponse:     ToLeadResponse(item.Lead),
		InteractionCount: item.InteractionCount,
	}
	if item.LatestInteractionType != nil && item.LatestInteractionNote != nil && item.LatestInteractionAt != nil {
		resp.LatestInteraction = &InteractionSnippet{
			Type:      string(*item.LatestInteractionType),
			Notes:     *item.LatestInteractionNote,
			CreatedAt: *item.LatestInteractionAt,
		}
	}
	return resp
}

func ToStatusHistoryResponse(e repository.StatusHistoryEntry) StatusHistoryResponse {
	resp := StatusHistoryResponse{
		ID:         e.ID,
		ToStatus:   string(e.ToStatus),
		Reason:     e.Reason,
		Notes:      e.Notes,
		OperatorID: e.OperatorID,
		CreatedAt:  e.CreatedAt,
	}
	if e.FromStatus != nil {
		from := string(*e.FromStatus)
		resp.FromStatus = &from
	}
	return resp
}

func ToInteractionResponse(i repository.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:              i.ID,
		Type:            string(i.Type),
		Outcome:         i.Outcome,
		DurationSeconds: i.DurationSeconds,
		Notes:           i.Notes,
		NextAction:      i.NextAction,
		FollowUpDate:    i.FollowUpDate,
		OperatorID:      i.OperatorID,
		CreatedAt:       i.CreatedAt,
	}
}
