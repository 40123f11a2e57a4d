package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/deemkeen/bnotas/db"
	"github.com/deemkeen/bnotas/middleware"
	"github.com/deemkeen/bnotas/ui"
	"github.com/deemkeen/bnotas/ui/common"
	"github.com/deemkeen/bnotas/util"
	"github.com/deemkeen/bnotas/web"
)

const usage = `usage:
  bnotas                 open the notes client in this terminal
  bnotas serve           serve the client over SSH plus the web companion
  bnotas reset <token>   set a new password with the token from the reset email
  bnotas feed            print the reminder feed address of this terminal
  bnotas version         print the version`

func main() {

	conf, err := util.ReadConf()
	if err != nil {
		log.Fatalln(err)
	}
	db.Path = conf.Conf.Database

	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "":
		err = runLocal(conf, ui.NewModel)
	case "reset":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		token := args[1]
		err = runLocal(conf, func(repo common.Repository, prefs common.Preferences, w, h int) ui.MainModel {
			return ui.NewResetModel(repo, prefs, token, w, h)
		})
	case "feed":
		err = printFeed(conf)
	case "serve":
		fmt.Println("Configuration: ")
		fmt.Println(util.PrettyPrint(conf))
		err = serve(conf)
	case "version", "--version", "-v":
		fmt.Println(util.GetNameAndVersion())
	case "help", "--help", "-h":
		fmt.Println(usage)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		log.Fatalln(err)
	}
}

// runLocal starts the client in the current terminal. Logging goes to the
// log file so it does not tear the screen.
func runLocal(conf *util.AppConfig, newModel func(common.Repository, common.Preferences, int, int) ui.MainModel) error {
	f, err := tea.LogToFile(util.ResolveFilePath(conf.Conf.LogFile), util.Name)
	if err != nil {
		return err
	}
	defer f.Close()

	database := db.GetDB()
	defer database.Close()

	client := middleware.NewClient(conf, database, util.LocalDeviceKey)
	m := newModel(client, database, 0, 0).WithFeed(web.NewFeedLinks(conf, database))
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func printFeed(conf *util.AppConfig) error {
	database := db.GetDB()
	defer database.Close()

	url, err := web.NewFeedLinks(conf, database).FeedURL(util.LocalDeviceKey)
	if err != nil {
		return fmt.Errorf("no feed yet, log in with bnotas first: %w", err)
	}
	fmt.Println(url)
	return nil
}

func serve(conf *util.AppConfig) error {
	database := db.GetDB()
	defer database.Close()

	s, err := wish.NewServer(
		wish.WithAddress(fmt.Sprintf("%s:%d", conf.Conf.Host, conf.Conf.SshPort)),
		wish.WithHostKeyPath(util.ResolveFilePath(".ssh", "hostkey")),
		wish.WithPublicKeyAuth(publicKeyHandler),
		wish.WithMiddleware(
			middleware.MainTui(conf, database),
			middleware.AuthMiddleware(database),
			logging.Middleware(), // last middleware executed first
		),
	)
	if err != nil {
		return err
	}

	startServing(s, conf, database)
	return nil
}

func startServing(s *ssh.Server, conf *util.AppConfig, database *db.DB) {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Printf("Starting SSH server on %s:%d", conf.Conf.Host, conf.Conf.SshPort)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatalln(err)
		}
	}()

	go func() {
		if err := web.Router(conf, database); err != nil {
			log.Fatalln(err)
		}
	}()

	<-done
	log.Println("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Println(err)
	}
}

func publicKeyHandler(ssh.Context, ssh.PublicKey) bool {
	return true
}
