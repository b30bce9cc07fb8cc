package discord

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/profile"
)

// MemberChecker reports whether a user still belongs to a guild
type MemberChecker interface {
	IsMember(s *discordgo.Session, guildID, userID string) bool
}

// membershipFunc binds a checker to one guild for the profile service
func (d *Deps) membershipFunc(s *discordgo.Session, guildID string) profile.MembershipFunc {
	if d.Members == nil {
		return nil
	}
	return func(userID string) bool {
		return d.Members.IsMember(s, guildID, userID)
	}
}

// MemberCache answers membership from the gateway state, then the REST API, and caches
// the answer with an expiry so leaderboards do not hit the API for every record.
type MemberCache struct {
	lru *expirable.LRU[string, bool]
}

// NewMemberCache creates a cache holding up to size answers for ttl
func NewMemberCache(size int, ttl time.Duration) *MemberCache {
	if size <= 0 {
		size = DefaultMemberCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultMemberCacheTTL
	}
	return &MemberCache{
		lru: expirable.NewLRU[string, bool](size, nil, ttl),
	}
}

// IsMember implements MemberChecker. Lookup errors other than "unknown member" count as
// membership and are not cached, so an API outage does not empty the leaderboard.
func (c *MemberCache) IsMember(s *discordgo.Session, guildID, userID string) bool {
	key := guildID + ":" + userID
	if member, ok := c.lru.Get(key); ok {
		return member
	}

	if s.State != nil {
		if _, err := s.State.Member(guildID, userID); err == nil {
			c.lru.Add(key, true)
			return true
		}
	}

	_, err := s.GuildMember(guildID, userID)
	switch {
	case err == nil:
		c.lru.Add(key, true)
		return true
	case isUnknownMember(err):
		c.lru.Add(key, false)
		return false
	default:
		slog.Warn(LogMsgMemberLookupFailed, "guild_id", guildID, "user_id", userID, "error", err)
		return true
	}
}

// Forget drops the cached answer for a user, e.g. after they leave
func (c *MemberCache) Forget(guildID, userID string) {
	c.lru.Remove(guildID + ":" + userID)
}

// Len reports the number of cached answers
func (c *MemberCache) Len() int {
	return c.lru.Len()
}

func isUnknownMember(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && (restErr.Message.Code == discordgo.ErrCodeUnknownMember || restErr.Message.Code == discordgo.ErrCodeUnknownUser) {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

// requireGuild rejects interactions that did not come from a server channel
func requireGuild(i *discordgo.InteractionCreate) error {
	if i.GuildID == "" || i.Member == nil {
		return domain.ErrNotInGuild
	}
	return nil
}

// requireAnyRole checks the invoking member holds one of the named roles
func requireAnyRole(s *discordgo.Session, i *discordgo.InteractionCreate, names []string) error {
	if err := requireGuild(i); err != nil {
		return err
	}

	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}

	var fetched map[string]string
	for _, roleID := range i.Member.Roles {
		if s.State != nil {
			if role, err := s.State.Role(i.GuildID, roleID); err == nil {
				if allowed[role.Name] {
					return nil
				}
				continue
			}
		}

		if fetched == nil {
			fetched = make(map[string]string)
			roles, err := s.GuildRoles(i.GuildID)
			if err != nil {
				slog.Warn(LogMsgRoleLookupFailed, "guild_id", i.GuildID, "error", err)
			}
			for _, r := range roles {
				fetched[r.ID] = r.Name
			}
		}
		if allowed[fetched[roleID]] {
			return nil
		}
	}

	return domain.ErrPermissionDenied
}
