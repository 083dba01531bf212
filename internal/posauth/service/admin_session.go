package service

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/creditpos/pkg/cryptox"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const (
	DefaultSessionCookieName = "creditpos_admin"
	sessionKeyShop           = "shop"
	sessionKeyUserID         = "uid"
)

// AdminSessions keeps embedded-admin callers signed in with an encrypted
// cookie. The cookie only names a shop; Authenticate also requires the shop
// to still be installed.
type AdminSessions struct {
	cookies *sessions.CookieStore
	name    string
	shops   *ShopService
}

type AdminSessionConfig struct {
	Secret     []byte
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

func NewAdminSessions(cfg AdminSessionConfig, shops *ShopService) (*AdminSessions, error) {
	hashKey, err := cryptox.DeriveKey(cfg.Secret, cryptox.PurposeSessionCookieHash)
	if err != nil {
		return nil, errors.Wrap(err, "could not derive cookie hash key")
	}
	blockKey, err := cryptox.DeriveKey(cfg.Secret, cryptox.PurposeSessionCookieEnc)
	if err != nil {
		return nil, errors.Wrap(err, "could not derive cookie encryption key")
	}

	name := cfg.CookieName
	if name == "" {
		name = DefaultSessionCookieName
	}

	cookies := sessions.NewCookieStore(hashKey, blockKey)
	cookies.MaxAge(int(cfg.MaxAge.Seconds()))
	cookies.Options.Path = "/"
	cookies.Options.HttpOnly = true
	cookies.Options.Secure = cfg.Secure
	// The admin is embedded in an iframe on admin.shopify.com.
	if cfg.Secure {
		cookies.Options.SameSite = http.SameSiteNoneMode
	} else {
		cookies.Options.SameSite = http.SameSiteLaxMode
	}

	return &AdminSessions{cookies: cookies, name: name, shops: shops}, nil
}

// Authenticate returns the shop bound to the request's session cookie.
func (a *AdminSessions) Authenticate(r *http.Request) (string, error) {
	sess, err := a.cookies.Get(r, a.name)
	if err != nil {
		return "", errors.Wrap(ErrNoAdminSession, err.Error())
	}

	shop, _ := sess.Values[sessionKeyShop].(string)
	if shop == "" {
		return "", ErrNoAdminSession
	}

	ok, err := a.shops.IsInstalled(r.Context(), shop)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrShopNotInstalled
	}
	return shop, nil
}

// Establish writes a session cookie for shop.
func (a *AdminSessions) Establish(w http.ResponseWriter, r *http.Request, shop, userID string) error {
	// A stale or foreign cookie decodes with an error but still yields a
	// fresh session to overwrite.
	sess, _ := a.cookies.New(r, a.name)
	sess.Values[sessionKeyShop] = shop
	if userID != "" {
		sess.Values[sessionKeyUserID] = userID
	}
	return errors.WithStack(sess.Save(r, w))
}

// Clear expires the session cookie.
func (a *AdminSessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := a.cookies.New(r, a.name)
	sess.Options.MaxAge = -1
	return errors.WithStack(sess.Save(r, w))
}
