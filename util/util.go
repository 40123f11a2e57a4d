package util

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/ssh"
	gossh "golang.org/x/crypto/ssh"
)

//go:embed version.txt
var embeddedVersion string

// LocalDeviceKey identifies the session of the program running in the
// user's own terminal. SSH users get the hash of their public key instead.
const LocalDeviceKey = "local"

// ErrMsg carries a failure into a bubbletea Update loop.
type ErrMsg struct {
	Err error
}

func (e ErrMsg) Error() string {
	return e.Err.Error()
}

var (
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	blockTagRe  = regexp.MustCompile(`(?i)<\s*/?\s*(br|p|div|li)\b[^>]*>`)
	spaceRunsRe = regexp.MustCompile(`[ \t]+`)
)

func LogPublicKey(s ssh.Session) {
	log.Printf("%s@%s opened a new ssh-session..", s.User(), s.RemoteAddr())
}

func PublicKeyToString(s ssh.PublicKey) string {
	return strings.TrimSpace(string(gossh.MarshalAuthorizedKey(s)))
}

func PkToHash(pk string) string {
	h := sha256.New()
	h.Write([]byte(pk))
	return hex.EncodeToString(h.Sum(nil))
}

// DeviceKeyForSession is the session-store key of an SSH user.
func DeviceKeyForSession(s ssh.Session) string {
	return PkToHash(PublicKeyToString(s.PublicKey()))
}

func GetVersion() string {
	return strings.TrimSpace(embeddedVersion)
}

func GetNameAndVersion() string {
	return fmt.Sprintf("%s / %s", Name, GetVersion())
}

func PrettyPrint(i interface{}) string {
	s, _ := json.MarshalIndent(i, "", " ")
	return string(s)
}

// StripHTML turns rich-text note content into plain text for previews.
func StripHTML(content string) string {
	text := blockTagRe.ReplaceAllString(content, "\n")
	text = tagRe.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = spaceRunsRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatDateDisplay renders a reminder as dd/MM HH:mm in local time.
func FormatDateDisplay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("02/01 15:04")
}

// FormatDateSimple renders dd/MM/yyyy in local time.
func FormatDateSimple(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02/01/2006")
}

const ReminderInputLayout = "02/01/2006 15:04"

var reminderInputLayouts = []string{
	ReminderInputLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// FormatReminderInput renders a reminder for the editor input field.
func FormatReminderInput(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(time.Local).Format(ReminderInputLayout)
}

// ParseReminderInput reads what the user typed as a local date and time.
// An empty input means no reminder.
func ParseReminderInput(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range reminderInputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid reminder %q, use dd/mm/yyyy hh:mm", s)
}
