package middleware

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/deemkeen/bnotas/api"
	"github.com/deemkeen/bnotas/db"
	"github.com/deemkeen/bnotas/ui"
	"github.com/deemkeen/bnotas/util"
	"github.com/deemkeen/bnotas/web"
	"github.com/muesli/termenv"
)

// MainTui runs one bubbletea program per SSH session. Each public key gets
// its own API client and stored session.
func MainTui(conf *util.AppConfig, database *db.DB) wish.Middleware {
	teaHandler := func(s ssh.Session) *tea.Program {

		pty, _, active := s.Pty()
		if !active {
			wish.Println(s, "no active terminal, skipping")
			return nil
		}

		client := NewClient(conf, database, util.DeviceKeyForSession(s))
		m := ui.NewModel(client, database, pty.Window.Width, pty.Window.Height).
			WithFeed(web.NewFeedLinks(conf, database))
		return tea.NewProgram(m, tea.WithInput(s), tea.WithOutput(s), tea.WithAltScreen())
	}
	return bm.MiddlewareWithProgramHandler(teaHandler, termenv.ANSI256)
}

// NewClient builds the API client of a device and restores its session.
func NewClient(conf *util.AppConfig, database *db.DB, deviceKey string) *api.Client {
	client := api.New(conf.Conf.ApiUrl, database, deviceKey, conf.Timeout())
	if _, err := client.Restore(); err != nil {
		log.Printf("Could not restore session of %s: %v", deviceKey, err)
	}
	return client
}
