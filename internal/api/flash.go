package api

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const flashCookie = "tripplanner_flash"

// flashCodec signs short-lived messages carried to the page after a redirect.
type flashCodec struct {
	key []byte
}

// newFlashCodec uses secret as the HMAC key. An empty secret gets a random
// key, so flashes do not survive a restart.
func newFlashCodec(secret string) (*flashCodec, error) {
	if secret != "" {
		return &flashCodec{key: []byte(secret)}, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return &flashCodec{key: key}, nil
}

func (c *flashCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (c *flashCodec) encode(msgs []string) (string, error) {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + "." + c.sign(payload), nil
}

func (c *flashCodec) decode(value string) ([]string, bool) {
	payload, sig, ok := strings.Cut(value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
		return nil, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	var msgs []string
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, false
	}
	return msgs, true
}

// setFlash stores msgs for the next page. Nothing is written for no messages.
func (s *Server) setFlash(w http.ResponseWriter, msgs []string) {
	if len(msgs) == 0 {
		return
	}
	value, err := s.flash.encode(msgs)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode flash messages")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending messages and clears the cookie. Tampered
// cookies are dropped silently.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) []string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, HttpOnly: true})

	msgs, ok := s.flash.decode(cookie.Value)
	if !ok {
		s.logger.Warn("dropping flash cookie with bad signature")
		return nil
	}
	return msgs
}
