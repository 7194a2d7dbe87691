package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mpiekarski/zbik/pkg/entities"
	"github.com/mpiekarski/zbik/pkg/tickets"
)

const (
	// setupCmdName is the command for all configuration commands.
	setupCmdName = "setup"

	// enableTicketingCmdName is the sub command for enabling ticketing.
	enableTicketingCmdName = "ticketing_enable"

	// disableTicketingCmdName is the sub command for disabling ticketing.
	disableTicketingCmdName = "ticketing_disable"

	// categoryCmdName is the text for the category option.
	categoryCmdName = "category"

	// roleCmdName is the text for the role option.
	roleCmdName = "role"

	// channelCmdName is the text for the panel channel option.
	channelCmdName = "channel"
)

// setupCmd is the command for all configuration commands.
var setupCmd = &discordgo.ApplicationCommand{
	Name:        setupCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "This is the command for all configuration commands.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        enableTicketingCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This enables ticketing with the category and panel channel you specify.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        categoryCmdName,
					Type:        discordgo.ApplicationCommandOptionChannel,
					Description: "This is the category that new ticket channels are created under.",
					Required:    true,
				},
				{
					Name:        roleCmdName,
					Type:        discordgo.ApplicationCommandOptionRole,
					Description: "This is the role you want to handle tickets.",
					Required:    true,
				},
				{
					Name:        channelCmdName,
					Type:        discordgo.ApplicationCommandOptionChannel,
					Description: "This is the channel you want the open-ticket panel in.",
					Required:    true,
				},
			},
		},
		{
			Name:        disableTicketingCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This will disable ticketing for your server.",
		},
	},
}

func setupCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	// Ensure the user is an administrator.
	if i.Member.Permissions&discordgo.PermissionAdministrator != discordgo.PermissionAdministrator {
		if err := respondEphemeral(a, i, "You must be an administrator to use this command"); err != nil {
			return nil, fmt.Errorf("error responding to interaction: %w", err)
		}
		return nil, nil
	}

	// Extract the sub command.
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case enableTicketingCmdName:
		return enableTicketingCmdController, nil
	case disableTicketingCmdName:
		return disableTicketingCmdController, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// enableTicketingCmdController is the controller for the enable ticketing command.
func enableTicketingCmdController(a IApp, i *discordgo.InteractionCreate) error {
	opts := i.ApplicationCommandData().Options[0].Options

	// Extract the category, role and panel channel provided.
	category := opts[0].ChannelValue(a.Session())
	role := opts[1].RoleValue(a.Session(), i.GuildID)
	panelChannel := opts[2].ChannelValue(a.Session())

	// Ensure the category is a category and the panel channel is a text
	// channel.
	if category.Type != discordgo.ChannelTypeGuildCategory {
		return respondEphemeral(a, i, "You must provide a category for created tickets.")
	}
	if panelChannel.Type != discordgo.ChannelTypeGuildText {
		return respondEphemeral(a, i, "You must provide a text channel for the ticket panel.")
	}

	ctx := context.Background()

	// Get the existing config, if any.
	config, err := a.ConfigDal().GetConfig(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild config: %w", err)
	}
	if config == nil {
		config = &entities.TicketConfig{
			GuildID: i.GuildID,
		}
	}

	config.Enabled = true
	config.CategoryID = category.ID
	config.StaffRoleID = role.ID

	// Check to see if the existing panel message still exists.
	if config.PanelMessageID != "" && config.PanelChannelID == panelChannel.ID {
		_, err := a.Session().ChannelMessage(config.PanelChannelID, config.PanelMessageID)
		if err != nil {
			restErr := new(discordgo.RESTError)
			if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
				config.PanelMessageID = ""
			} else {
				return fmt.Errorf("error getting panel message: %w", err)
			}
		}
	} else {
		config.PanelMessageID = ""
	}

	// If there is no panel message, send a new one.
	if config.PanelMessageID == "" {
		msg, err := sendTicketPanelMessage(a, panelChannel)
		if err != nil {
			return fmt.Errorf("error sending panel message: %w", err)
		}
		config.PanelChannelID = panelChannel.ID
		config.PanelMessageID = msg.ID
	}

	// Save the guild configuration.
	if err := a.ConfigDal().SaveConfig(ctx, config); err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}

	return respondEphemeral(a, i, fmt.Sprintf("Ticketing has been enabled. New tickets will be created under <#%s>.", category.ID))
}

// disableTicketingCmdController is the controller for the disable ticketing command.
func disableTicketingCmdController(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	config, err := a.ConfigDal().GetConfig(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild config: %w", err)
	}
	if config == nil {
		return respondEphemeral(a, i, "Ticketing has not been set up for this server.")
	}

	config.Enabled = false
	if err := a.ConfigDal().SaveConfig(ctx, config); err != nil {
		return fmt.Errorf("error saving guild config: %w", err)
	}

	return respondEphemeral(a, i, "Ticketing has been disabled for this server.")
}

func sendTicketPanelMessage(a IApp, channel *discordgo.Channel) (*discordgo.Message, error) {
	const messageText = `How can we help?
Welcome to our tickets channel. If you have any questions or inquiries, please click on the button matching your request to contact the staff by opening a ticket!`

	// One button per catalog type; the type key rides in the custom ID.
	descriptors := tickets.DefaultCatalog().Descriptors()
	buttons := make([]discordgo.MessageComponent, 0, len(descriptors))
	for _, d := range descriptors {
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("%s %s", TicketEmoji, d.Title),
			Style:    discordgo.PrimaryButton,
			CustomID: openTicketButtonPrefix + d.Key,
		})
	}

	message := &discordgo.MessageSend{
		Content: messageText,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: buttons,
			},
		},
	}

	// Send the message.
	msg, err := a.Session().ChannelMessageSendComplex(channel.ID, message)
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}

	return msg, nil
}
