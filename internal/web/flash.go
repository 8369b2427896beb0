package web

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

const (
	flashCookie = "datapacket_flash"

	// flashMaxAge bounds how long an unread message stays valid, in seconds.
	flashMaxAge = 300
)

// flashMessage is a one-shot notice shown on the next page view.
type flashMessage struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// flasher stores flash messages in a signed cookie.
type flasher struct {
	codec *securecookie.SecureCookie
}

func newFlasher(key []byte) *flasher {
	codec := securecookie.New(key, nil).MaxAge(flashMaxAge)
	codec.SetSerializer(securecookie.JSONEncoder{})
	return &flasher{codec: codec}
}

func (f *flasher) set(w http.ResponseWriter, msg flashMessage) error {
	value, err := f.codec.Encode(flashCookie, msg)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// pop returns the pending message and clears the cookie. A cookie that
// fails verification yields nil.
func (f *flasher) pop(w http.ResponseWriter, r *http.Request) *flashMessage {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, HttpOnly: true})

	var msg flashMessage
	if err := f.codec.Decode(flashCookie, c.Value, &msg); err != nil {
		return nil
	}
	return &msg
}
