package discord

import "github.com/ethaan/craftbot/pkg/command"

const embedColor = 0x5865F2

// registerCommands wires every handler into the registry. A collision here
// is a programming error and aborts startup.
func (b *Bot) registerCommands() error {
	cmds := []command.Command{
		&pingCommand{},
		&helpCommand{registry: b.registry, menus: b.menus, session: b.session},
		&rolesCommand{},
		&userCommand{mutualGuilds: b.mutualGuilds},
		&uuidCommand{mojang: b.mojang},
		&avatarCommand{mojang: b.mojang},
		&bodyCommand{mojang: b.mojang},
		&settingsCommand{},
		&prefixCommand{},
		&debugCommand{bot: b},
	}

	for _, cmd := range cmds {
		if err := b.registry.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}
