package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/command"
	"github.com/ethaan/craftbot/pkg/config"
	"github.com/ethaan/craftbot/pkg/jobs"
	"github.com/ethaan/craftbot/pkg/logger"
	"github.com/ethaan/craftbot/pkg/mojang"
	"github.com/ethaan/craftbot/pkg/repositories"
	"github.com/ethaan/craftbot/pkg/settings"
	"github.com/ethaan/craftbot/pkg/workers"
	"github.com/jonboulle/clockwork"
)

type Bot struct {
	session    *discordgo.Session
	registry   *command.Registry
	dispatcher *command.Dispatcher
	settings   *settings.Cache
	cooldowns  *command.CooldownTracker
	mojang     *mojang.Client
	usageRepo  *repositories.UsageRepository
	menus      *menuManager

	workerManager *workers.Manager
	jobManager    *jobs.Manager
}

func New(cfg *config.Config) (*Bot, error) {
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("discord bot token is required")
	}

	if err := settings.ConfigureDefaultPrefix(cfg.DefaultPrefix); err != nil {
		return nil, fmt.Errorf("invalid default prefix: %w", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	clock := clockwork.NewRealClock()
	cache := settings.NewCache(repositories.NewSettingRepository(), cfg.CacheTTL, clock)
	cooldowns := command.NewCooldownTracker(clock)

	bot := &Bot{
		session:   session,
		registry:  command.NewRegistry(),
		settings:  cache,
		cooldowns: cooldowns,
		mojang:    mojang.NewClient(cfg.MojangAPIURL, cfg.CrafatarURL),
		usageRepo: repositories.NewUsageRepository(),
		menus:     newMenuManager(),
	}

	if err := bot.registerCommands(); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	bot.dispatcher = command.NewDispatcher(command.Options{
		Registry:          bot.registry,
		Cooldowns:         cooldowns,
		Settings:          cache,
		Members:           newMemberProvider(session),
		ElevatedUserIDs:   cfg.ElevatedUserIDs,
		DefaultCooldown:   cfg.DefaultCooldown,
		CooldownOverrides: cfg.CooldownOverride,
		Timeout:           cfg.CommandTimeout,
		Typing: func(channelID string) {
			if err := session.ChannelTyping(channelID); err != nil {
				logger.Debug("Failed to send typing indicator to %s: %v", channelID, err)
			}
		},
	})

	bot.workerManager = workers.NewManager(cooldowns, cache)
	bot.jobManager = jobs.NewManager(session, bot.dispatcher, bot.usageRepo, cfg.ReportChannelID)

	return bot, nil
}

func (b *Bot) Start() error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.dispatcher.SetSelfID(s.State.User.ID)
		logger.Success("Discord bot logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.session.AddHandler(b.handleMessageCreate)
	b.session.AddHandler(b.menus.handleReaction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	b.workerManager.Start()
	b.jobManager.Start()

	logger.Success("Discord bot is now running")
	return nil
}

func (b *Bot) Stop() error {
	b.jobManager.Stop()
	b.workerManager.Stop()
	return b.session.Close()
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	ev := command.Event{
		Raw:       m.Content,
		AuthorID:  m.Author.ID,
		AuthorTag: m.Author.Username + "#" + m.Author.Discriminator,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
	}
	for _, user := range m.Mentions {
		// The bot's own mention is a prefix form, not a target.
		if s.State.User != nil && user.ID == s.State.User.ID {
			continue
		}
		ev.Mentions = append(ev.Mentions, user.ID)
	}
	if m.GuildID != "" {
		if perms, err := s.State.MessagePermissions(m.Message); err == nil {
			ev.CallerCanManageGuild = perms&discordgo.PermissionManageServer != 0
		}
	}

	result, handled := b.dispatcher.Dispatch(context.Background(), ev)
	if !handled {
		return
	}

	b.deliver(s, m, result)
}

// mutualGuilds lists the names of guilds the bot shares with a user, from
// the state cache only.
func (b *Bot) mutualGuilds(userID string) []string {
	var names []string
	for _, guild := range b.session.State.Guilds {
		if _, err := b.session.State.Member(guild.ID, userID); err == nil {
			names = append(names, guild.Name)
		}
	}
	return names
}

// deliver sends a classified result to the invoking channel, scheduling
// temporary replies for deletion and honoring the delete-commands setting.
func (b *Bot) deliver(s *discordgo.Session, m *discordgo.MessageCreate, result command.Result) {
	var sent *discordgo.Message
	var err error

	switch {
	case result.Embed != nil:
		sent, err = s.ChannelMessageSendEmbed(m.ChannelID, result.Embed)
	case result.Content != "":
		sent, err = s.ChannelMessageSend(m.ChannelID, result.Content)
	default:
		// The handler produced its own output (for example a menu).
		return
	}
	if err != nil {
		logger.Error("Failed to send reply to %s: %v", m.ChannelID, err)
		return
	}

	if result.DeleteAfter > 0 {
		time.AfterFunc(result.DeleteAfter, func() {
			if err := s.ChannelMessageDelete(sent.ChannelID, sent.ID); err != nil {
				logger.Debug("Failed to delete temporary reply %s: %v", sent.ID, err)
			}
		})
	}

	if result.Outcome == command.OutcomeSuccess && m.GuildID != "" {
		del, err := settings.DeleteCommands.Effective(b.settings, m.GuildID, m.ChannelID)
		if err == nil && del {
			if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
				logger.Debug("Failed to delete invoking message %s: %v", m.ID, err)
			}
		}
	}
}
