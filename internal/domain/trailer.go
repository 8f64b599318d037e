package domain

type Trailer struct {
	ID      int32  `json:"id"`
	OwnerID int32  `json:"ownerId"`
	Name    string `json:"name"`
}

// Session identifies the acting user of a request. It is built by the
// transport layer and passed explicitly to mutating operations.
type Session struct {
	UserID int32
}

func (s Session) Owns(t *Trailer) bool {
	return t != nil && s.UserID != 0 && t.OwnerID == s.UserID
}
