package domain

// ClientMeta describes the client a refresh credential was issued to.
type ClientMeta struct {
	IP        string
	UserAgent string
}
