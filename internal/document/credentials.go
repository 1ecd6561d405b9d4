package document

import "google.golang.org/api/option"

// Credentials selects how Google Cloud clients authenticate. Inline JSON wins
// over a file; with neither, application default credentials are used.
type Credentials struct {
	JSON string // GOOGLE_CREDENTIALS
	File string // GOOGLE_APPLICATION_CREDENTIALS
}

func (c Credentials) clientOptions() []option.ClientOption {
	switch {
	case c.JSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(c.JSON))}
	case c.File != "":
		return []option.ClientOption{option.WithCredentialsFile(c.File)}
	}
	return nil
}
