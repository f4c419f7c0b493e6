package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thankiuday/dreamlink/internal/app/models"
	"github.com/thankiuday/dreamlink/internal/app/models/dto"
	"github.com/thankiuday/dreamlink/internal/pkg/apperrors"
	"github.com/thankiuday/dreamlink/internal/pkg/chatgateway"
)

// probeWorkers bounds the concurrency of the per-channel probing fallback.
// Probes are pure reads with no side effects, so running them in parallel
// is safe; the bound keeps pressure on the provider reasonable.
const probeWorkers = 4

// PartnerService reconciles a subject's conversation partners across the
// relationship store, the local message log, and the external provider.
type PartnerService interface {
	ListPartners(ctx context.Context, callerID int64, callerRole models.RoleType, subjectID int64) (*dto.PartnerListResponse, error)
	ListChildren(ctx context.Context, callerID int64) ([]dto.UserResponse, error)
}

// partnerDirectory is the user lookup surface the reconciler needs
type partnerDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	GetAllActiveIDs(ctx context.Context, excludeID int64) ([]int64, error)
	GetChildren(ctx context.Context, parentID int64) ([]*models.User, error)
	IsParentOf(ctx context.Context, parentID, childID int64) (bool, error)
}

// friendEdges produces declared friendship partners and verified account links
type friendEdges interface {
	GetFriendIDs(ctx context.Context, userID int64) ([]int64, error)
	GetLinkedAccountIDs(ctx context.Context, userID int64) ([]int64, error)
}

// roomEdges produces room co-membership partners
type roomEdges interface {
	GetCoMemberIDs(ctx context.Context, userID int64) ([]int64, error)
}

// logEdges produces local-log counterparty partners
type logEdges interface {
	GetCounterpartyIDs(ctx context.Context, userID int64) ([]int64, error)
}

// partnerServiceImpl implements PartnerService
type partnerServiceImpl struct {
	users   partnerDirectory
	friends friendEdges
	rooms   roomEdges
	log     logEdges
	gateway chatgateway.Gateway
	logger  zerolog.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(
	users partnerDirectory,
	friends friendEdges,
	rooms roomEdges,
	log logEdges,
	gateway chatgateway.Gateway,
	logger zerolog.Logger,
) PartnerService {
	return &partnerServiceImpl{
		users:   users,
		friends: friends,
		rooms:   rooms,
		log:     log,
		gateway: gateway,
		logger:  logger,
	}
}

// ListPartners merges the independent relationship sources into one
// categorized partner set, sorted by display name.
func (s *partnerServiceImpl) ListPartners(
	ctx context.Context,
	callerID int64,
	callerRole models.RoleType,
	subjectID int64,
) (*dto.PartnerListResponse, error) {
	if err := s.authorize(ctx, callerID, callerRole, subjectID); err != nil {
		return nil, err
	}

	// Subject must exist before any source is consulted
	if _, err := s.users.GetByID(ctx, subjectID); err != nil {
		return nil, apperrors.NewResourceNotFoundError("User not found")
	}

	// Each source produces (id, tag) pairs merged into one tag-set map.
	// Source failures on the durable stores abort the call; the external
	// gateway is advisory and only ever shrinks the result.
	tagsByID := make(map[int64]map[models.PartnerTag]struct{})
	add := func(id int64, tag models.PartnerTag) {
		if id == subjectID {
			return
		}
		set, ok := tagsByID[id]
		if !ok {
			set = make(map[models.PartnerTag]struct{})
			tagsByID[id] = set
		}
		set[tag] = struct{}{}
	}

	friendIDs, err := s.friends.GetFriendIDs(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	for _, id := range friendIDs {
		add(id, models.PartnerTagFriend)
	}

	coMemberIDs, err := s.rooms.GetCoMemberIDs(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	for _, id := range coMemberIDs {
		add(id, models.PartnerTagRoomMember)
	}

	counterpartyIDs, err := s.log.GetCounterpartyIDs(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	for _, id := range counterpartyIDs {
		add(id, models.PartnerTagDirectChannel)
	}

	for _, id := range s.externalChannelPartners(ctx, subjectID) {
		add(id, models.PartnerTagDirectChannel)
	}

	return s.resolvePartners(ctx, subjectID, tagsByID)
}

// ListChildren returns the supervised children of the caller. Anyone may
// ask; a caller with no children just gets an empty list.
func (s *partnerServiceImpl) ListChildren(ctx context.Context, callerID int64) ([]dto.UserResponse, error) {
	children, err := s.users.GetChildren(ctx, callerID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(children))
	for _, child := range children {
		responses = append(responses, dto.ToUserResponse(child))
	}
	return responses, nil
}

// authorize enforces who may look at whose partner list: the subject
// themselves, the subject's parent, and faculty/admin staff.
func (s *partnerServiceImpl) authorize(ctx context.Context, callerID int64, callerRole models.RoleType, subjectID int64) error {
	if callerID == subjectID {
		return nil
	}

	switch callerRole {
	case models.RoleFaculty, models.RoleAdmin:
		return nil
	case models.RoleParent:
		isParent, err := s.users.IsParentOf(ctx, callerID, subjectID)
		if err != nil {
			return err
		}
		if isParent {
			return nil
		}

		// A verified account link grants the same supervision view
		linkedIDs, err := s.friends.GetLinkedAccountIDs(ctx, callerID)
		if err != nil {
			return err
		}
		for _, id := range linkedIDs {
			if id == subjectID {
				return nil
			}
		}
	}

	return apperrors.NewForbiddenError("Not allowed to view this user's conversation partners")
}

// externalChannelPartners queries the provider for the subject's channels.
// The bulk query is used when it works; otherwise the method degrades to
// probing the deterministic channel id of every other known user. All
// failures here are logged and swallowed: the provider is advisory.
func (s *partnerServiceImpl) externalChannelPartners(ctx context.Context, subjectID int64) []int64 {
	channels, err := s.gateway.ChannelsForMember(ctx, subjectID)
	if err == nil {
		var ids []int64
		for _, channelID := range channels {
			if other, ok := chatgateway.CounterpartyFromChannelID(channelID, subjectID); ok {
				ids = append(ids, other)
			}
		}
		return ids
	}

	s.logger.Warn().Err(err).
		Int64("subjectID", subjectID).
		Msg("Bulk channel query failed, falling back to per-channel probes")

	return s.probeChannels(ctx, subjectID)
}

// probeChannels is the O(N) fallback: for every other known user,
// synthesize the pair channel id and ask the provider whether it has any
// messages. Acceptable only because N is small in this domain.
func (s *partnerServiceImpl) probeChannels(ctx context.Context, subjectID int64) []int64 {
	otherIDs, err := s.users.GetAllActiveIDs(ctx, subjectID)
	if err != nil {
		s.logger.Error().Err(err).Int64("subjectID", subjectID).Msg("Failed to list users for channel probing")
		return nil
	}

	var (
		mu    sync.Mutex
		found []int64
		wg    sync.WaitGroup
	)

	sem := make(chan struct{}, probeWorkers)
	for _, otherID := range otherIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(otherID int64) {
			defer wg.Done()
			defer func() { <-sem }()

			has, err := s.gateway.ChannelHasMessages(ctx, chatgateway.ChannelID(subjectID, otherID))
			if err != nil {
				// Per-probe failure means "no channel", not abort
				s.logger.Debug().Err(err).
					Int64("subjectID", subjectID).
					Int64("otherID", otherID).
					Msg("Channel probe failed")
				return
			}
			if has {
				mu.Lock()
				found = append(found, otherID)
				mu.Unlock()
			}
		}(otherID)
	}
	wg.Wait()

	return found
}

// resolvePartners batch-fetches display data for the merged id set and
// assembles the sorted response.
func (s *partnerServiceImpl) resolvePartners(
	ctx context.Context,
	subjectID int64,
	tagsByID map[int64]map[models.PartnerTag]struct{},
) (*dto.PartnerListResponse, error) {
	ids := make([]int64, 0, len(tagsByID))
	for id := range tagsByID {
		ids = append(ids, id)
	}

	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	partners := make([]*models.Partner, 0, len(users))
	for _, user := range users {
		tagSet := tagsByID[user.ID]
		tags := make([]models.PartnerTag, 0, len(tagSet))
		for _, tag := range []models.PartnerTag{models.PartnerTagFriend, models.PartnerTagRoomMember, models.PartnerTagDirectChannel} {
			if _, ok := tagSet[tag]; ok {
				tags = append(tags, tag)
			}
		}
		partners = append(partners, &models.Partner{
			UserID:      user.ID,
			DisplayName: user.DisplayName(),
			Role:        user.Role,
			Tags:        tags,
		})
	}

	// Display-name order keeps pagination stable across recomputations
	sort.Slice(partners, func(i, j int) bool {
		a, b := partners[i], partners[j]
		if c := strings.Compare(strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)); c != 0 {
			return c < 0
		}
		return a.UserID < b.UserID
	})

	response := &dto.PartnerListResponse{
		SubjectID: subjectID,
		Partners:  make([]dto.PartnerResponse, 0, len(partners)),
	}
	for _, partner := range partners {
		response.Partners = append(response.Partners, dto.ToPartnerResponse(partner))
	}

	return response, nil
}
