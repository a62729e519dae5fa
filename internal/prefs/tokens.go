package prefs

// TokenStore is the durable backing store of the session token.
// Token writes are not announced on the event bus.
type TokenStore struct {
	store *Store
}

func NewTokenStore(store *Store) *TokenStore {
	return &TokenStore{store: store}
}

func (t *TokenStore) LoadToken() string {
	token, _ := t.store.Lookup(TokenKey)
	return token
}

func (t *TokenStore) SaveToken(token string) error {
	return t.store.write(TokenKey, token)
}

func (t *TokenStore) ClearToken() error {
	return t.store.Remove(TokenKey)
}
