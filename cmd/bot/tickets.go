package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/mpiekarski/zbik/cmd/bot/monitoring"
	"github.com/mpiekarski/zbik/pkg/custom"
	"github.com/mpiekarski/zbik/pkg/entities"
	"github.com/mpiekarski/zbik/pkg/logging"
	"github.com/mpiekarski/zbik/pkg/messages"
	"github.com/mpiekarski/zbik/pkg/tickets"
)

const (
	// openTicketButtonPrefix prefixes the panel buttons; the ticket type key
	// follows the colon.
	openTicketButtonPrefix = "open_ticket:"

	// ClaimTicketButtonID is the ID for the claim ticket button.
	ClaimTicketButtonID = "claim_ticket_button"

	// CloseTicketButtonID is the ID for the close ticket button.
	CloseTicketButtonID = "close_ticket_button"

	// ConfirmCloseButtonID is the ID for the confirm close button.
	ConfirmCloseButtonID = "confirm_close_button"

	// CancelCloseButtonID is the ID for the cancel close button.
	CancelCloseButtonID = "cancel_close_button"
)

const (
	// TicketEmoji is the emoji used for the open ticket buttons. (Envelope with arrow)
	TicketEmoji = "\U0001F4E9"

	// ClaimEmoji is the emoji used for the claim button. (Ticket)
	ClaimEmoji = "\U0001F3AB"

	// CloseEmoji is the emoji used for the close button. (Padlock)
	CloseEmoji = "\U0001F510"

	// ConfirmEmoji is the emoji used for the confirm close button. (Check mark)
	ConfirmEmoji = "✅"

	// CancelEmoji is the emoji used for the cancel close button. (Cross)
	CancelEmoji = "❌"
)

const (
	// TicketCmdName is the command for controlling tickets.
	TicketCmdName = "ticket"

	// OpenCmdName is the sub command for opening a ticket.
	OpenCmdName = "open"

	// ClaimCmdName is the sub command for claiming a ticket.
	ClaimCmdName = "claim"

	// CloseCmdName is the sub command for closing a ticket.
	CloseCmdName = "close"

	// StatsCmdName is the sub command for the claim leaderboard.
	StatsCmdName = "stats"
)

// ticketCmd is the command for controlling tickets.
var ticketCmd = &discordgo.ApplicationCommand{
	Name:        TicketCmdName,
	Type:        discordgo.ChatApplicationCommand,
	Description: "This is the command for controlling tickets.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        OpenCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This opens a new ticket of the given type.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "type",
					Type:        discordgo.ApplicationCommandOptionString,
					Description: "This is the type of ticket to open.",
					Required:    true,
					Choices:     ticketTypeChoices(),
				},
			},
		},
		{
			Name:        ClaimCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This claims the ticket for the channel that the command was executed in.",
		},
		{
			Name:        CloseCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This closes the ticket for the channel that the command was executed in.",
		},
		{
			Name:        StatsCmdName,
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Description: "This shows the ticket leaderboard for this server.",
		},
	},
}

func ticketTypeChoices() []*discordgo.ApplicationCommandOptionChoice {
	descriptors := tickets.DefaultCatalog().Descriptors()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(descriptors))
	for _, d := range descriptors {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  d.Title,
			Value: d.Key,
		})
	}
	return choices
}

// openTicketType extracts the ticket type key from a panel button custom ID.
func openTicketType(customID string) (string, bool) {
	return strings.CutPrefix(customID, openTicketButtonPrefix)
}

func ticketCmdController(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	subCmd := i.ApplicationCommandData().Options[0].Name

	switch subCmd {
	case OpenCmdName:
		typeKey := i.ApplicationCommandData().Options[0].Options[0].StringValue()
		return createTicketHandler(typeKey), nil
	case ClaimCmdName:
		return claimTicketHandler, nil
	case CloseCmdName:
		return closeTicketHandler, nil
	case StatsCmdName:
		return ticketStatsHandler, nil
	default:
		return nil, fmt.Errorf("unhandled sub command %s", subCmd)
	}
}

// createTicketHandler returns the processor that opens a ticket of the given
// type.
func createTicketHandler(typeKey string) commandProcessor {
	return func(a IApp, i *discordgo.InteractionCreate) error {
		return createTicket(a, i, typeKey)
	}
}

// createTicket is the function for creating a ticket.
func createTicket(a IApp, i *discordgo.InteractionCreate, typeKey string) error {
	ctx := context.Background()

	if !a.CreationLimiter().Allow(i.GuildID) {
		return respondEphemeral(a, i, messages.CreationRateLimited)
	}

	// Validate the request and derive the channel name. Nothing is written
	// until the channel exists.
	plan, err := a.Lifecycle().ValidateCreation(ctx, i.GuildID, typeKey, i.Member.User.Username)
	switch {
	case errors.Is(err, tickets.ErrNoConfig):
		return respondEphemeral(a, i, messages.TicketingNotConfigured)
	case errors.Is(err, tickets.ErrTicketingDisabled):
		return respondEphemeral(a, i, messages.TicketingDisabled)
	case errors.Is(err, tickets.ErrInvalidType):
		return respondEphemeral(a, i, messages.UnknownTicketType)
	case err != nil:
		return fmt.Errorf("error validating ticket creation: %w", err)
	}

	// The staff role is needed for the channel permissions.
	guildConfig, err := a.ConfigDal().GetConfig(ctx, i.GuildID)
	if err != nil {
		return fmt.Errorf("error getting guild config: %w", err)
	}
	if guildConfig == nil {
		// The config vanished between validation and now.
		return respondEphemeral(a, i, messages.TicketingNotConfigured)
	}

	// Create the ticket channel only the staff role and the creator can see.
	ticketChannel, err := a.Session().GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:  plan.ChannelName,
		Type:  discordgo.ChannelTypeGuildText,
		Topic: fmt.Sprintf("%s ticket created by %s", plan.Type.Title, i.Member.User.Username),
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			// Deny @everyone from seeing the ticket.
			{
				ID:   i.GuildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionAll,
			},
			// The creator of the ticket can see the ticket.
			{
				ID:    i.Member.User.ID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionAllText,
				Deny:  discordgo.PermissionMentionEveryone,
			},
			// Add the staff role.
			{
				ID:    guildConfig.StaffRoleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionAllText,
				Deny:  discordgo.PermissionMentionEveryone,
			},
		},
		ParentID: plan.CategoryID,
	})
	if err != nil {
		// A failed channel create aborts the whole creation; no state is
		// persisted.
		return fmt.Errorf("error creating ticket channel: %w", err)
	}

	state := &entities.TicketState{
		ChannelID:   ticketChannel.ID,
		GuildID:     i.GuildID,
		CreatorID:   i.Member.User.ID,
		CreatorName: i.Member.User.Username,
		TypeKey:     plan.Type.Key,
		CreatedAt:   custom.Now(),
	}

	if err := a.StateDal().CreateState(ctx, state); err != nil {
		// Without state the channel would be an orphan; take it back down.
		if _, dErr := a.Session().ChannelDelete(ticketChannel.ID); dErr != nil {
			a.Log().Error("Error deleting orphaned ticket channel",
				slog.String(logging.KeyChannel, ticketChannel.ID),
				slog.String(logging.KeyError, dErr.Error()),
			)
		}
		return fmt.Errorf("error saving ticket state: %w", err)
	}

	monitoring.TicketsCreated.WithLabelValues(i.GuildID, plan.Type.Key).Inc()

	// The welcome message is decorative; a failure here does not invalidate
	// the created ticket.
	go func() {
		if err := setupNewTicketChannel(a, state, plan.Type); err != nil {
			a.Log().Error("Error setting up new ticket channel",
				slog.String(logging.KeyChannel, state.ChannelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}()

	// Respond to the interaction saying that the ticket has been created in
	// channel <channel>.
	err = a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Ticket Created",
					Description: fmt.Sprintf("<@%s>, your %s ticket has been created.", i.Member.User.ID, plan.Type.Title),
					Color:       plan.Type.Color,
					Fields: []*discordgo.MessageEmbedField{
						{
							Name:   "Ticket Name",
							Value:  plan.ChannelName,
							Inline: true,
						},
						{
							Name:   "Ticket Channel",
							Value:  fmt.Sprintf("<#%s>", state.ChannelID),
							Inline: true,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("error responding to interaction: %w", err)
	}
	return nil
}

func setupNewTicketChannel(a IApp, state *entities.TicketState, descriptor tickets.TypeDescriptor) error {
	message := &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>, your ticket has been created.\nPlease provide any additional info you deem relevant to help us answer faster.", state.CreatorID),
		Embeds: []*discordgo.MessageEmbed{
			{
				Title: descriptor.Title,
				Color: descriptor.Color,
				Image: &discordgo.MessageEmbedImage{
					URL: descriptor.Image,
				},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Claim", ClaimEmoji),
						Style:    discordgo.PrimaryButton,
						CustomID: ClaimTicketButtonID,
					},
					discordgo.Button{
						Label:    fmt.Sprintf("%s Close", CloseEmoji),
						Style:    discordgo.SecondaryButton,
						CustomID: CloseTicketButtonID,
					},
				},
			},
		},
	}

	// Send the initial message to the channel.
	msg, err := a.Session().ChannelMessageSendComplex(state.ChannelID, message)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}

	// Pin the message to the channel.
	if err := a.Session().ChannelMessagePin(state.ChannelID, msg.ID); err != nil {
		return fmt.Errorf("error pinning message: %w", err)
	}

	return nil
}

func claimTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	ctx := context.Background()

	// Cheap pre-check so a claim outside a ticket channel gets a clear
	// message. The store's conditional write stays the authority on races.
	if _, err := a.Assignment().Owner(ctx, i.ChannelID); errors.Is(err, tickets.ErrNotATicket) {
		return respondEphemeral(a, i, messages.NotATicketChannel)
	} else if err != nil {
		return fmt.Errorf("error getting ticket owner: %w", err)
	}

	result, err := a.Assignment().TakeTicket(ctx, i.ChannelID, i.GuildID, i.Member.User.ID)
	if errors.Is(err, tickets.ErrAlreadyTaken) {
		owner, oErr := a.Assignment().Owner(ctx, i.ChannelID)
		if oErr != nil {
			return fmt.Errorf("error getting ticket owner: %w", oErr)
		}
		if owner == i.Member.User.ID {
			return respondEphemeral(a, i, "You have already claimed this ticket.")
		}
		return respondEphemeral(a, i, "This ticket is already claimed by <@"+owner+">.")
	} else if err != nil {
		return fmt.Errorf("error claiming ticket: %w", err)
	}

	monitoring.TicketsClaimed.WithLabelValues(i.GuildID).Inc()

	// Respond to the interaction saying that the ticket has been claimed.
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("<@%s> has claimed this ticket. Tickets handled so far: %d.", result.AssignedTo, result.StatsCount),
		},
	})
}

func closeTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	err := a.Closure().RequestClose(context.Background(), i.ChannelID, i.Member.User.ID)
	switch {
	case errors.Is(err, tickets.ErrNotATicket):
		return respondEphemeral(a, i, messages.NotATicketChannel)
	case errors.Is(err, tickets.ErrPermissionDenied):
		return respondEphemeral(a, i, messages.ClosePermissionDenied)
	case err != nil:
		return fmt.Errorf("error requesting close: %w", err)
	}

	// The pending close only exists as this prompt; nothing is persisted
	// until the confirm button is pressed.
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Are you sure you want to close this ticket? The channel will be deleted.",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    fmt.Sprintf("%s Close ticket", ConfirmEmoji),
							Style:    discordgo.DangerButton,
							CustomID: ConfirmCloseButtonID,
						},
						discordgo.Button{
							Label:    fmt.Sprintf("%s Cancel", CancelEmoji),
							Style:    discordgo.SecondaryButton,
							CustomID: CancelCloseButtonID,
						},
					},
				},
			},
		},
	})
}

func confirmCloseHandler(a IApp, i *discordgo.InteractionCreate) error {
	// Fire and forget; the deletion runs after the fixed delay regardless of
	// what happens to this interaction.
	a.Closure().ConfirmClose(i.ChannelID)

	monitoring.TicketsClosed.WithLabelValues(i.GuildID).Inc()

	return respondUpdate(a, i, "Ticket closed. This channel will be deleted in a few seconds.")
}

func cancelCloseHandler(a IApp, i *discordgo.InteractionCreate) error {
	a.Closure().CancelClose(i.ChannelID)

	return respondUpdate(a, i, "Ticket close cancelled.")
}

func ticketStatsHandler(a IApp, i *discordgo.InteractionCreate) error {
	stats, err := a.StatsDal().TopModerators(context.Background(), i.GuildID, 10)
	if err != nil {
		return fmt.Errorf("error getting moderator stats: %w", err)
	}

	if len(stats) == 0 {
		return respondEphemeral(a, i, "No tickets have been claimed in this server yet.")
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(stats))
	for n, stat := range stats {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d", n+1),
			Value: fmt.Sprintf("<@%s> with %d tickets", stat.ModeratorID, stat.Count),
		})
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:  "Ticket Leaderboard",
					Color:  0x00ff00,
					Fields: fields,
				},
			},
		},
	})
}
