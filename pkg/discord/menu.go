package discord

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/ethaan/craftbot/pkg/logger"
)

const (
	menuPrev = "◀"
	menuNext = "▶"
	menuTTL  = 5 * time.Minute
)

type menuState struct {
	pages    []*discordgo.MessageEmbed
	index    int
	authorID string
}

// menuManager tracks open reaction-paged embeds by message id. Menus expire
// after a fixed TTL; reactions on expired menus are ignored.
type menuManager struct {
	mu   sync.Mutex
	open map[string]*menuState
}

func newMenuManager() *menuManager {
	return &menuManager{open: make(map[string]*menuState)}
}

// Open sends the first page and arms the pagination reactions. Single-page
// menus degrade to a plain embed.
func (m *menuManager) Open(s *discordgo.Session, channelID, authorID string, pages []*discordgo.MessageEmbed) error {
	msg, err := s.ChannelMessageSendEmbed(channelID, pages[0])
	if err != nil {
		return err
	}
	if len(pages) == 1 {
		return nil
	}

	for _, emoji := range []string{menuPrev, menuNext} {
		if err := s.MessageReactionAdd(channelID, msg.ID, emoji); err != nil {
			logger.Debug("Failed to add menu reaction to %s: %v", msg.ID, err)
		}
	}

	m.mu.Lock()
	m.open[msg.ID] = &menuState{pages: pages, authorID: authorID}
	m.mu.Unlock()

	time.AfterFunc(menuTTL, func() {
		m.mu.Lock()
		delete(m.open, msg.ID)
		m.mu.Unlock()
	})
	return nil
}

func (m *menuManager) handleReaction(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.Emoji.Name != menuPrev && r.Emoji.Name != menuNext {
		return
	}

	m.mu.Lock()
	state, ok := m.open[r.MessageID]
	if !ok || state.authorID != r.UserID {
		m.mu.Unlock()
		return
	}
	if r.Emoji.Name == menuNext {
		state.index = (state.index + 1) % len(state.pages)
	} else {
		state.index = (state.index - 1 + len(state.pages)) % len(state.pages)
	}
	page := state.pages[state.index]
	m.mu.Unlock()

	if _, err := s.ChannelMessageEditEmbed(r.ChannelID, r.MessageID, page); err != nil {
		logger.Debug("Failed to flip menu page on %s: %v", r.MessageID, err)
	}
	if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.Name, r.UserID); err != nil {
		logger.Debug("Failed to clear menu reaction on %s: %v", r.MessageID, err)
	}
}
