// Command lockkey is the interactive shell of the vault. It owns the
// terminal only; authentication, key handling, encryption and storage all
// live in the session and below.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/mfedotov/lockkey/internal/config"
	"github.com/mfedotov/lockkey/internal/logger"
	"github.com/mfedotov/lockkey/internal/session"
	"github.com/mfedotov/lockkey/internal/store"
	"github.com/mfedotov/lockkey/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("lockkey")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	st, err := store.Open(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening vault store")
	}

	sess := session.NewSession(st, cfg, log)
	defer sess.Close()

	sess.NotifyTimeout(func() {
		fmt.Println("\nsession expired after inactivity, please login again")
	})

	runShell(ctx, sess)
}

func runShell(ctx context.Context, sess *session.Session) {
	fmt.Println(`lockkey vault. Type "help" for commands.`)

	// One buffered reader for the whole shell; a second reader on the same
	// stdin would swallow lines buffered ahead.
	in := bufio.NewReader(os.Stdin)

	for {
		fmt.Print(prompt(sess))

		line, err := readLine(in)
		if err != nil {
			fmt.Println()
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}

		if err := dispatch(ctx, sess, in, cmd, args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func prompt(sess *session.Session) string {
	if name := sess.Username(); name != "" {
		return fmt.Sprintf("lockkey (%s)> ", name)
	}
	return "lockkey> "
}

func dispatch(ctx context.Context, sess *session.Session, in *bufio.Reader, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
		return nil
	case "register":
		return cmdRegister(ctx, sess, in, args)
	case "login":
		return cmdLogin(ctx, sess, in, args)
	case "logout":
		sess.Logout()
		return nil
	case "add":
		return cmdAdd(ctx, sess, in, args)
	case "show":
		return cmdShow(ctx, sess, args)
	case "copy":
		return cmdCopy(ctx, sess, args)
	case "list":
		return cmdList(ctx, sess)
	case "edit":
		return cmdEdit(ctx, sess, in, args)
	case "rm":
		return cmdRemove(ctx, sess, args)
	case "delete-account":
		return cmdDeleteAccount(ctx, sess, in)
	default:
		return fmt.Errorf("unknown command %q, type \"help\"", cmd)
	}
}

func printHelp() {
	fmt.Print(`commands:
  register <username>          create a new vault account
  login <username>             authenticate and unlock the vault
  logout                       lock the vault
  add <kind> <label>           store a secret (kind: password | text)
  show <label>                 decrypt and print a secret
  copy <label>                 decrypt a secret into the clipboard
  list                         list stored labels
  edit <label> [new-label]     re-enter and optionally rename a secret
  rm <label>                   delete a secret
  delete-account               delete the account and all its secrets
  quit                         exit
`)
}

func cmdRegister(ctx context.Context, sess *session.Session, in *bufio.Reader, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: register <username>")
	}

	password, err := readPassword(in, "master password: ")
	if err != nil {
		return err
	}

	confirm, err := readPassword(in, "repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	if err := sess.CreateAccount(ctx, args[0], password); err != nil {
		return err
	}

	fmt.Println("account created, you can login now")
	return nil
}

func cmdLogin(ctx context.Context, sess *session.Session, in *bufio.Reader, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: login <username>")
	}

	password, err := readPassword(in, "master password: ")
	if err != nil {
		return err
	}

	return sess.Login(ctx, args[0], password)
}

func cmdAdd(ctx context.Context, sess *session.Session, in *bufio.Reader, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: add <kind> <label>")
	}

	kind, err := models.ParseKind(args[0])
	if err != nil {
		return err
	}

	data, err := readSecretValue(in, kind)
	if err != nil {
		return err
	}

	return sess.StoreSecret(ctx, kind, args[1], data)
}

func cmdShow(ctx context.Context, sess *session.Session, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: show <label>")
	}

	view, err := sess.RetrieveSecret(ctx, args[0])
	if err != nil {
		return err
	}
	if view == nil {
		return fmt.Errorf("no secret with label %q", args[0])
	}

	fmt.Printf("[%s] %s: %s\n", view.Kind, view.Label, view.Data)
	return nil
}

func cmdCopy(ctx context.Context, sess *session.Session, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: copy <label>")
	}

	view, err := sess.RetrieveSecret(ctx, args[0])
	if err != nil {
		return err
	}
	if view == nil {
		return fmt.Errorf("no secret with label %q", args[0])
	}

	if err := clipboard.WriteAll(view.Data); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}

	fmt.Printf("%q copied to clipboard\n", view.Label)
	return nil
}

func cmdList(ctx context.Context, sess *session.Session) error {
	labels, err := sess.ListLabels(ctx)
	if err != nil {
		return err
	}

	if len(labels) == 0 {
		fmt.Println("vault is empty")
		return nil
	}

	for _, entry := range labels {
		fmt.Printf("  [%s] %s\n", entry.Kind, entry.Label)
	}
	return nil
}

func cmdEdit(ctx context.Context, sess *session.Session, in *bufio.Reader, args []string) error {
	if len(args) != 1 && len(args) != 2 {
		return errors.New("usage: edit <label> [new-label]")
	}

	oldLabel := args[0]
	newLabel := oldLabel
	if len(args) == 2 {
		newLabel = args[1]
	}

	data, err := readPassword(in, "new value: ")
	if err != nil {
		return err
	}

	return sess.EditSecret(ctx, oldLabel, newLabel, data)
}

func cmdRemove(ctx context.Context, sess *session.Session, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <label>")
	}
	return sess.DeleteSecret(ctx, args[0])
}

func cmdDeleteAccount(ctx context.Context, sess *session.Session, in *bufio.Reader) error {
	password, err := readPassword(in, "master password (confirms deletion): ")
	if err != nil {
		return err
	}

	if err := sess.DeleteAccount(ctx, password); err != nil {
		return err
	}

	fmt.Println("account and all its secrets deleted")
	return nil
}

// readSecretValue reads the payload for a new secret. Password values are
// read without echo; free-form text is read as a plain line.
func readSecretValue(in *bufio.Reader, kind models.Kind) (string, error) {
	if kind == models.KindPassword {
		return readPassword(in, "secret value: ")
	}

	fmt.Print("secret value: ")
	return readLine(in)
}

// readPassword reads a line from the terminal with echo disabled. Falls
// back to a plain read when stdin is not a terminal, so the shell stays
// scriptable.
func readPassword(in *bufio.Reader, promptText string) (string, error) {
	fmt.Print(promptText)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(in)
	}

	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
