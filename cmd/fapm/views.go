package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nhle/fapm/internal/model"
	"github.com/nhle/fapm/internal/store"
	"github.com/nhle/fapm/internal/theme"
)

func newContactsCmd(a *app) *cobra.Command {
	var byTime, keepRe bool
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List everyone you exchanged messages with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			loc, err := a.cfg.Forum.Location()
			if err != nil {
				return &model.ValidationError{Field: "timezone", Value: a.cfg.Forum.Timezone, Msg: err.Error()}
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore(s, &err)

			contacts, err := s.Contacts(cmd.Context())
			if err != nil {
				return err
			}
			if byTime {
				store.SortContactsByLatest(contacts)
			}

			out := cmd.OutOrStdout()
			if len(contacts) == 0 {
				fmt.Fprintln(out, theme.HelpStyle.Render("The archive is empty. Run fapm sync first."))
				return nil
			}

			width := 0
			for _, c := range contacts {
				width = max(width, lipgloss.Width(c.Username))
			}
			name := lipgloss.NewStyle().Width(width + 2)
			count := lipgloss.NewStyle().Width(14)

			fmt.Fprintln(out, theme.HeaderStyle.Render("Contacts"))
			for _, c := range contacts {
				latest := model.Message{Timestamp: c.LastTimestamp, Subject: c.LastSubject}
				fmt.Fprintf(out, "%s%s%s %s\n",
					name.Render(c.Username),
					count.Render(theme.DimmedStyle.Render(fmt.Sprintf("%d message%s", c.MessageCount, plural(c.MessageCount)))),
					theme.DimmedStyle.Render(latest.Time(loc).Format("2006-01-02 15:04")),
					theme.SubjectStyle.Render(latest.DisplaySubject(keepRe)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&byTime, "sort-by-time", "t", false, "Sort contacts by their latest message, newest first")
	cmd.Flags().BoolVarP(&keepRe, "keep-re", "r", false, "Do not strip RE: from message subjects")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var noEmojis, keepRe bool
	cmd := &cobra.Command{
		Use:   "show CONTACT",
		Short: "Print the conversation with a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			contact := args[0]
			loc, err := a.cfg.Forum.Location()
			if err != nil {
				return &model.ValidationError{Field: "timezone", Value: a.cfg.Forum.Timezone, Msg: err.Error()}
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore(s, &err)

			messages, err := s.Conversation(cmd.Context(), contact)
			if err != nil {
				return err
			}
			if len(messages) == 0 {
				return fmt.Errorf("%w with %s", errNoMessages, contact)
			}

			fmt.Fprint(cmd.OutOrStdout(), theme.Conversation(contact, messages, theme.ConversationOptions{
				Emojis:   !noEmojis,
				KeepRe:   keepRe,
				Location: loc,
			}))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&noEmojis, "no-emojis", "e", false, "Replace smilies with BBCode text")
	cmd.Flags().BoolVarP(&keepRe, "keep-re", "r", false, "Do not strip RE: from message subjects")
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show archive totals and the last sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore(s, &err)

			ctx := cmd.Context()
			counts, err := s.CountMessages(ctx)
			if err != nil {
				return err
			}
			last, err := s.LastSyncRun(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, theme.HeaderStyle.Render("Archive "+a.cfg.Database))

			total := 0
			for _, folder := range model.AllFolders {
				n := counts[folder]
				total += n
				fmt.Fprintf(out, "%s %s\n",
					theme.FolderLabelStyle(folder).Width(10).Render(folder.Title()),
					theme.CountStyle.Render(strconv.Itoa(n)))
			}
			fmt.Fprintf(out, "%s %s\n",
				lipgloss.NewStyle().Bold(true).Padding(0, 1).Width(10).Render("Total"),
				theme.CountStyle.Render(strconv.Itoa(total)))

			fmt.Fprintln(out)
			if last == nil {
				fmt.Fprintln(out, theme.HelpStyle.Render("Never synced."))
				return nil
			}
			fmt.Fprintf(out, "Last sync %s (%s): %d new, %d moved, %d marked unread, %d scanned in %s\n",
				last.FinishedAt.Local().Format("2006-01-02 15:04"),
				last.FinishedAt.Sub(last.StartedAt).Round(time.Second),
				last.NewCount, last.MovedCount, last.RestoredCount, last.Scanned,
				strings.ReplaceAll(last.Folders, ",", ", "))
			return nil
		},
	}
}
