package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nhle/fapm/internal/credential"
	"github.com/nhle/fapm/internal/model"
	"github.com/nhle/fapm/internal/source/furaffinity"
	"github.com/nhle/fapm/internal/sync"
	"github.com/nhle/fapm/internal/theme"
)

type syncOptions struct {
	tokenA   string
	tokenB   string
	folders  []string
	pages    int
	remember bool
}

func newSyncCmd(a *app) *cobra.Command {
	var o syncOptions
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download new private messages and record folder moves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSync(cmd, o)
		},
	}
	cmd.Flags().StringVarP(&o.tokenA, "token-a", "a", "", "Session token A instead of prompting for it")
	cmd.Flags().StringVarP(&o.tokenB, "token-b", "b", "", "Session token B instead of prompting for it")
	cmd.Flags().StringSliceVarP(&o.folders, "folder", "f", nil, "Only check the given folders (inbox, sent, archive, trash)")
	cmd.Flags().IntVarP(&o.pages, "pages", "p", 0, "Scan at most this many listing pages per folder (0 scans all)")
	cmd.Flags().BoolVar(&o.remember, "remember", false, "Store the session tokens in the system keyring")
	return cmd
}

func (a *app) runSync(cmd *cobra.Command, o syncOptions) (err error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	names := o.folders
	if len(names) == 0 {
		names = a.cfg.Forum.Folders
	}
	folders, err := a.resolveFolders(names)
	if err != nil {
		return err
	}

	maxPages := a.cfg.Forum.MaxPages
	if cmd.Flags().Changed("pages") {
		if o.pages < 0 {
			return &model.ValidationError{Field: "page count", Value: strconv.Itoa(o.pages), Msg: "must not be negative"}
		}
		maxPages = o.pages
	}

	loc, err := a.cfg.Forum.Location()
	if err != nil {
		return &model.ValidationError{Field: "timezone", Value: a.cfg.Forum.Timezone, Msg: err.Error()}
	}

	var ring *credential.Keyring
	if a.cfg.Keyring.Enabled || o.remember {
		if ring, err = credential.OpenKeyring(a.cfg.Keyring.FileDir); err != nil {
			return err
		}
	}
	tokenA, tokenB := o.tokenA, o.tokenB
	if ring != nil && tokenA == "" && tokenB == "" {
		if tokenA, tokenB, err = ring.Recall(); err != nil {
			a.log.WithError(err).Warn("Could not read remembered session tokens")
		}
	}

	creds, err := credential.NewManager(credential.TerminalProvider{}, out).Obtain(tokenA, tokenB)
	if err != nil {
		return err
	}
	if o.remember {
		if err := ring.Remember(creds); err != nil {
			return err
		}
		a.log.Info("Session tokens stored in the keyring")
	}

	client, err := furaffinity.NewClient(a.cfg.Forum.BaseURL,
		furaffinity.WithUserAgent(furaffinity.UserAgent(version, a.cfg.Forum.UserAgent)),
		furaffinity.WithLimiter(furaffinity.NewLimiter(a.cfg.Forum.RequestInterval())),
		furaffinity.WithDateParser(furaffinity.DateParser{Location: loc}),
		furaffinity.WithLogger(a.log),
	)
	if err != nil {
		return &model.ValidationError{Field: "base URL", Value: a.cfg.Forum.BaseURL, Msg: err.Error()}
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore(s, &err)

	syncer := sync.New(s, furaffinity.NewScanner(client, maxPages), client, a.log)
	result, err := syncer.Run(ctx, creds, folders)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s new message%s downloaded, %s moved, %s marked unread again\n",
		theme.CountStyle.Render(strconv.Itoa(result.Run.NewCount)), plural(result.Run.NewCount),
		theme.CountStyle.Render(strconv.Itoa(result.Run.MovedCount)),
		theme.CountStyle.Render(strconv.Itoa(result.Run.RestoredCount)))

	if !o.remember && !a.cfg.Keyring.Enabled {
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.HelpStyle.Render(credential.AboutLogout))
	}
	return nil
}

// resolveFolders parses folder names, warning about legacy names.
func (a *app) resolveFolders(names []string) ([]model.Folder, error) {
	for _, name := range names {
		folder, renamed, err := model.ParseFolder(name)
		if err != nil {
			return nil, err
		}
		if renamed {
			a.log.WithField("folder", name).Warnf("Folder %q is now called %q", name, folder)
		}
	}
	return model.ParseFolders(names)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func openOutput(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, nil
}
