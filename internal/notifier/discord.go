package notifier

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/trioguard/trioguard-web/internal/models"
)

type Notifier interface {
	NotifySettingsChange(server models.Server, changed map[string]interface{}) error
}

// DiscordNotifier posts dashboard settings changes into the guild's
// configured log channel through the bot account.
type DiscordNotifier struct {
	session        *discordgo.Session
	resolveChannel func(serverID string) string
}

// NewDiscordNotifier wires the bot session. resolveChannel maps a server id
// to the channel id to post into; an empty result skips the notification.
func NewDiscordNotifier(session *discordgo.Session, resolveChannel func(serverID string) string) *DiscordNotifier {
	return &DiscordNotifier{
		session:        session,
		resolveChannel: resolveChannel,
	}
}

func (n *DiscordNotifier) NotifySettingsChange(server models.Server, changed map[string]interface{}) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	channelID := n.resolveChannel(server.ID)
	if channelID == "" {
		return nil
	}

	keys := make([]string, 0, len(changed))
	for k := range changed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "🔧 **Settings updated** for **%s**\n", server.Name)
	for _, k := range keys {
		fmt.Fprintf(&b, "**%s:** %v\n", k, changed[k])
	}

	_, err := n.session.ChannelMessageSend(channelID, b.String())
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
