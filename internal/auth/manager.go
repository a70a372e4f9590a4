// Package auth owns the persisted session credential: the bearer token,
// the user id and the current-user profile blob. One active session at
// a time; everything here survives process restarts.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/prefs"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/util"

	"github.com/google/uuid"
)

// Session-scoped keys, cleared together on logout. Device keys are
// install-scoped and survive logout.
const (
	keyToken       = "jwt_token"
	keyUserID      = "user_id"
	keyCurrentUser = "current_user"

	keyDeviceID   = "device_id"
	keyDeviceSalt = "device_salt"
)

type Manager struct {
	store *prefs.Store
	key   []byte // AES key for the token at rest
}

// NewManager wires a Manager over the given preferences namespace.
// The token encryption key is derived from secret plus a per-install
// salt created on first use.
func NewManager(store *prefs.Store, secret string) (*Manager, error) {
	salt, err := loadOrCreateSalt(store)
	if err != nil {
		return nil, err
	}
	if _, ok := store.Get(keyDeviceID); !ok {
		if err := store.Set(keyDeviceID, uuid.NewString()); err != nil {
			return nil, fmt.Errorf("save device id: %w", err)
		}
	}
	return &Manager{store: store, key: util.DeriveKey(secret, salt)}, nil
}

func loadOrCreateSalt(store *prefs.Store) ([]byte, error) {
	if enc, ok := store.Get(keyDeviceSalt); ok {
		salt, err := base64.RawStdEncoding.DecodeString(enc)
		if err == nil && len(salt) > 0 {
			return salt, nil
		}
	}
	salt, err := util.RandomBytes(16)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if err := store.Set(keyDeviceSalt, base64.RawStdEncoding.EncodeToString(salt)); err != nil {
		return nil, fmt.Errorf("save salt: %w", err)
	}
	return salt, nil
}

// SaveToken persists the bearer token, overwriting any prior one. The
// token shape is not validated; it is opaque to the client.
func (m *Manager) SaveToken(token string) error {
	enc, err := util.EncryptAES(m.key, []byte(token))
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}
	return m.store.Set(keyToken, base64.RawStdEncoding.EncodeToString(enc))
}

// Token returns the last saved token, or false if never set, cleared,
// or unreadable.
func (m *Manager) Token() (string, bool) {
	enc, ok := m.store.Get(keyToken)
	if !ok || enc == "" {
		return "", false
	}
	raw, err := base64.RawStdEncoding.DecodeString(enc)
	if err != nil {
		return "", false
	}
	plain, err := util.DecryptAES(m.key, raw)
	if err != nil {
		return "", false
	}
	return string(plain), true
}

// AuthHeader returns the Authorization header value for the saved
// token. Absent iff the token is absent.
func (m *Manager) AuthHeader() (string, bool) {
	token, ok := m.Token()
	if !ok {
		return "", false
	}
	return "Bearer " + token, true
}

// ClearToken erases all session-scoped keys. Install-scoped device
// keys are kept so the device identity survives logout.
func (m *Manager) ClearToken() error {
	return m.store.Delete(keyToken, keyUserID, keyCurrentUser)
}

// IsLoggedIn reports whether a non-empty token is present.
func (m *Manager) IsLoggedIn() bool {
	token, ok := m.Token()
	return ok && token != ""
}

func (m *Manager) SaveUserID(userID string) error {
	return m.store.Set(keyUserID, userID)
}

func (m *Manager) UserID() (string, bool) {
	id, ok := m.store.Get(keyUserID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// SaveCurrentUser persists the profile blob and the user id. A nil
// user is ignored.
func (m *Manager) SaveCurrentUser(user *models.Student) error {
	if user == nil {
		return nil
	}
	blob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal current user: %w", err)
	}
	if err := m.store.Set(keyCurrentUser, string(blob)); err != nil {
		return err
	}
	return m.SaveUserID(user.ID)
}

// CurrentUser returns the cached profile, or nil when absent or
// malformed. A corrupt blob means "no current user", never an error.
func (m *Manager) CurrentUser() *models.Student {
	blob, ok := m.store.Get(keyCurrentUser)
	if !ok || blob == "" {
		return nil
	}
	var user models.Student
	if err := json.Unmarshal([]byte(blob), &user); err != nil {
		return nil
	}
	return &user
}

// DeviceID returns the stable per-install identifier.
func (m *Manager) DeviceID() string {
	id, _ := m.store.Get(keyDeviceID)
	return id
}
