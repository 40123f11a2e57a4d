package middleware

import (
	"log"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/deemkeen/bnotas/db"
	"github.com/deemkeen/bnotas/util"
)

// AuthMiddleware admits only sessions with a public key, since the key hash
// is what the stored notes session is bound to.
func AuthMiddleware(database *db.DB) wish.Middleware {
	return func(h ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			if s.PublicKey() == nil {
				wish.Println(s, "bnotas requires public key authentication")
				log.Printf("%s@%s rejected: no public key", s.User(), s.RemoteAddr())
				return
			}

			util.LogPublicKey(s)
			deviceKey := util.DeviceKeyForSession(s)
			if err := database.TouchSession(deviceKey); err != nil {
				log.Printf("Could not touch session of %s: %v", deviceKey, err)
			}
			h(s)
		}
	}
}
