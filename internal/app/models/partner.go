package models

// PartnerTag categorizes how a conversation partner is related to the
// subject user. Tags are not exclusive.
type PartnerTag string

const (
	PartnerTagFriend        PartnerTag = "friend"
	PartnerTagRoomMember    PartnerTag = "room-member"
	PartnerTagDirectChannel PartnerTag = "direct-channel"
)

// Partner is a derived view of one conversation partner. It is recomputed
// per reconciliation request and never persisted.
type Partner struct {
	UserID      int64        `json:"userId"`
	DisplayName string       `json:"displayName"`
	Role        RoleType     `json:"role"`
	Tags        []PartnerTag `json:"tags"`
}

// HasTag reports whether the partner carries the given tag
func (p *Partner) HasTag(tag PartnerTag) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
