package directory

import "errors"

// ErrNotFound is returned when the directory has no user for a given id.
var ErrNotFound = errors.New("user not found")

// User is a directory record. IDs are assigned by the directory and stable
// once assigned.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// Draft is an id-less user payload for create/update calls.
type Draft struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
}

// Page is one page of the directory listing.
type Page struct {
	Data       []User `json:"data"`
	TotalPages int    `json:"total_pages"`
}
