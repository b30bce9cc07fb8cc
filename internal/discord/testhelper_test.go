package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GuildStatsBot_Go/internal/concurrency"
	"github.com/osse101/GuildStatsBot_Go/internal/profile"
	"github.com/osse101/GuildStatsBot_Go/internal/storage"
)

const (
	testGuildID = "guild-1"
	testUserID  = "user-1"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// staticMembers is a MemberChecker backed by a fixed set
type staticMembers map[string]bool

func (m staticMembers) IsMember(_ *discordgo.Session, _, userID string) bool {
	return m[userID]
}

// TestContext wires a discordgo session with intercepted HTTP to a real service on a temp file
type TestContext struct {
	Session      *discordgo.Session
	DiscordMocks *MockRoundTripper
	Service      profile.Service
	Store        *storage.Store
	Deps         *Deps

	Embeds   []*discordgo.MessageEmbed
	Contents []string
}

func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	dir := t.TempDir()
	store := storage.New(storage.ResolvePaths(storage.PathOptions{
		FileName: "user_stats.json",
		MountDir: filepath.Join(dir, "absent"),
		WorkDir:  dir,
		TempDir:  filepath.Join(dir, "tmp"),
	}))
	svc := profile.NewService(store, concurrency.NewLockManager(), store.Paths().Primary,
		profile.WithClock(func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }))

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	ctx := &TestContext{
		Session: session,
		Service: svc,
		Store:   store,
		Deps:    &Deps{Service: svc, Members: staticMembers{}},
	}

	// Capture interaction edits, answer everything else with an empty object
	ctx.DiscordMocks = &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			if req.Method == http.MethodPatch {
				var body discordgo.WebhookEdit
				if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
					if body.Embeds != nil && len(*body.Embeds) > 0 {
						ctx.Embeds = append(ctx.Embeds, (*body.Embeds)[0])
					}
					if body.Content != nil {
						ctx.Contents = append(ctx.Contents, *body.Content)
					}
				}
			}
			return jsonResponse(http.StatusOK, "{}"), nil
		},
	}
	session.Client = &http.Client{Transport: ctx.DiscordMocks}

	return ctx
}

// Run invokes a command factory's handler against the test session
func (c *TestContext) Run(factory CommandFactory, i *discordgo.InteractionCreate) {
	_, handler := factory()
	handler(context.Background(), c.Session, i, c.Deps)
}

// LastEmbed returns the most recent embed sent, or nil
func (c *TestContext) LastEmbed() *discordgo.MessageEmbed {
	if len(c.Embeds) == 0 {
		return nil
	}
	return c.Embeds[len(c.Embeds)-1]
}

// LastContent returns the most recent plain message sent
func (c *TestContext) LastContent() string {
	if len(c.Contents) == 0 {
		return ""
	}
	return c.Contents[len(c.Contents)-1]
}

func jsonResponse(status int, body string) *http.Response {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     h,
	}
}

// newInteraction builds a guild slash command interaction from the test user
func newInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    discordgo.InteractionApplicationCommand,
			GuildID: testGuildID,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
			Member: &discordgo.Member{
				User: &discordgo.User{ID: testUserID, Username: "tester"},
				Nick: "Tester",
			},
		},
	}
}

// newDMInteraction builds the same interaction outside a guild
func newDMInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
			User: &discordgo.User{ID: testUserID, Username: "tester"},
		},
	}
}

func intOpt(name string, v int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}

func strOpt(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: v,
	}
}

func fieldValue(embed *discordgo.MessageEmbed, name string) string {
	for _, f := range embed.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}
