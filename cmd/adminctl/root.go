package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/raf-alpha/api-go/apperr"
	"github.com/raf-alpha/api-go/client"
	"github.com/raf-alpha/api-go/lang"
	"github.com/spf13/cobra"
)

type globals struct {
	server    string
	tokenFile string
	lang      string
	verbose   bool
	out       io.Writer
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "adminctl", "token")
}

func newRootCmd(out io.Writer) *cobra.Command {
	g := &globals{out: out}

	root := &cobra.Command{
		Use:           "adminctl",
		Short:         "Command line client for the real-estate admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("ADMIN_API_URL")
	if server == "" {
		server = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&g.server, "server", server, "API base URL (ADMIN_API_URL)")
	root.PersistentFlags().StringVar(&g.tokenFile, "token-file", defaultTokenFile(), "where the access token is kept")
	root.PersistentFlags().StringVar(&g.lang, "lang", "en", "form and message language: ar or en")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newLoginCmd(g),
		newLogoutCmd(g),
		newPasswordCmd(g),
		newUsersCmd(g),
		newCategoryCmd(g),
		newUnitCmd(g),
		newCoordsCmd(g),
		newWatchCmd(g),
	)
	return root
}

func (g *globals) language() (lang.Lang, error) {
	return lang.Parse(g.lang)
}

func (g *globals) client() (*client.Client, error) {
	l, err := g.language()
	if err != nil {
		return nil, err
	}
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return client.New(g.server,
		client.WithCredentials(client.FileToken{Path: g.tokenFile}),
		client.WithLang(l),
		client.WithLogger(log),
	), nil
}

func (g *globals) print(v any) error {
	enc := json.NewEncoder(g.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// explain turns field errors into one line per field.
func explain(err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		msg := "invalid input:"
		for _, fe := range ve.Errors {
			msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
		}
		return errors.New(msg)
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		msg := apiErr.Message
		for _, fe := range apiErr.Fields {
			msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
		}
		return errors.New(msg)
	}
	if client.IsForbidden(err) {
		return errors.New("you are not allowed to do this")
	}
	return err
}
