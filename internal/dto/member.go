package dto

import (
	"github.com/kassabot/kassa_backend/internal/core/domain"
)

// IncludeMembersRequest defines the accounts to add to the registry.
// Each entry is either a ghost name or an @username mention; the custom
// `identity` rule enforces the account shape.
type IncludeMembersRequest struct {
	Accounts []string `json:"accounts" binding:"required,min=1,dive,identity"`
}

// MembersActionRequest names the members targeted by a bulk registry
// operation (exclude, freeze, unfreeze).
type MembersActionRequest struct {
	Accounts []string `json:"accounts" binding:"required,min=1"`
}

// ClaimAccountRequest carries the numeric platform id replacing a ghost name.
type ClaimAccountRequest struct {
	UserID int64 `json:"userID" binding:"required"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	Account string `json:"account"`
	Kind    string `json:"kind"`
	Active  bool   `json:"active"`
}

// IncludeMembersResponse separates freshly added members from those that
// were already present.
type IncludeMembersResponse struct {
	Included []MemberResponse `json:"included"`
	Existing []MemberResponse `json:"existing"`
}

// ListMembersResponse wraps the list of members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// MembersActionResponse lists the members a bulk operation touched.
type MembersActionResponse struct {
	Members []MemberResponse `json:"members"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO
func ToMemberResponse(member *domain.Member) MemberResponse {
	return MemberResponse{
		Account: member.Account,
		Kind:    string(member.Kind()),
		Active:  member.Active,
	}
}

// ToMemberResponses converts a slice of domain.Member to response DTOs
func ToMemberResponses(members []domain.Member) []MemberResponse {
	responses := make([]MemberResponse, len(members))
	for i, member := range members {
		responses[i] = ToMemberResponse(&member)
	}
	return responses
}
