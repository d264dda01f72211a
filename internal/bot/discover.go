package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
)

// ChatInfo describes a chat the bot has seen.
type ChatInfo struct {
	ID    int64
	Type  string
	Title string
}

// DiscoverChats lists the distinct chats found in updates, in first-seen order.
func DiscoverChats(updates []tgbotapi.Update) []ChatInfo {
	chats := lo.FilterMap(updates, func(u tgbotapi.Update, _ int) (ChatInfo, bool) {
		var chat *tgbotapi.Chat
		switch {
		case u.Message != nil:
			chat = u.Message.Chat
		case u.ChannelPost != nil:
			chat = u.ChannelPost.Chat
		case u.MyChatMember != nil:
			chat = &u.MyChatMember.Chat
		}
		if chat == nil {
			return ChatInfo{}, false
		}
		return ChatInfo{ID: chat.ID, Type: chat.Type, Title: ChatTitle(chat)}, true
	})

	return lo.UniqBy(chats, func(c ChatInfo) int64 {
		return c.ID
	})
}
